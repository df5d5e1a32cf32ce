package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// CredentialStore owns password hashing and credential checks for both
// principal kinds. Each kind has its own repository and email namespace.
type CredentialStore struct {
	users  ports.UserRepository
	admins ports.AdminRepository
	cost   int
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewCredentialStore(users ports.UserRepository, admins ports.AdminRepository, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{users: users, admins: admins, cost: cost, now: time.Now}
}

// Verify returns the principal of the given kind whose email and password
// match. A missing email and a wrong password both yield
// domain.ErrInvalidCredentials.
func (s *CredentialStore) Verify(ctx context.Context, kind domain.PrincipalKind, email, password string) (domain.Principal, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var (
		principal domain.Principal
		hash      string
	)
	switch kind {
	case domain.KindUser:
		u, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, s.missing(err, domain.ErrUserNotFound, password)
		}
		principal, hash = u, u.PasswordHash
	case domain.KindAdmin:
		a, err := s.admins.FindByEmail(ctx, email)
		if err != nil {
			return nil, s.missing(err, domain.ErrAdminNotFound, password)
		}
		principal, hash = a, a.PasswordHash
	default:
		return nil, fmt.Errorf("verify credentials: unknown principal kind %q", kind)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return principal, nil
}

// missing burns a bcrypt comparison when the lookup found nothing so both
// failure paths take about the same time.
func (s *CredentialStore) missing(err, notFound error, password string) error {
	if !errors.Is(err, notFound) {
		return err
	}
	_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
	return domain.ErrInvalidCredentials
}

func (s *CredentialStore) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}

// RegisterUser creates an active, unverified user holding a fresh
// verification token.
func (s *CredentialStore) RegisterUser(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		FullName:          strings.TrimSpace(fullName),
		Email:             email,
		PasswordHash:      hash,
		IsActive:          true,
		VerificationToken: uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.users.Create(ctx, user)
}

// RegisterAdmin creates an active admin.
func (s *CredentialStore) RegisterAdmin(ctx context.Context, email, password, fullName string) (*domain.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	admin := &domain.Admin{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.admins.Create(ctx, admin)
}

// HashPassword rejects passwords bcrypt would refuse (over 72 bytes) with
// domain.ErrPasswordTooLong.
func (s *CredentialStore) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Emails are matched exactly; only surrounding whitespace is dropped.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
