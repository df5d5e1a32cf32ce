package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
	"github.com/papyrus/bookstore-api/internal/pkg/token"
)

const tokenTypeBearer = "bearer"

// TokenIssuer mints access tokens for a principal email.
type TokenIssuer interface {
	Issue(subject string) (token.Issued, error)
}

// Revoker records a token as logged out.
type Revoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

// AuthService implements the user account lifecycle: registration, email
// verification, login, logout, password reset and profile updates.
type AuthService struct {
	creds    *CredentialStore
	users    ports.UserRepository
	issuer   TokenIssuer
	revoker  Revoker
	notifier ports.Notifier
	blobs    ports.BlobStore
	appURL   string
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	creds *CredentialStore,
	users ports.UserRepository,
	issuer TokenIssuer,
	revoker Revoker,
	notifier ports.Notifier,
	blobs ports.BlobStore,
	appURL string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		creds:    creds,
		users:    users,
		issuer:   issuer,
		revoker:  revoker,
		notifier: notifier,
		blobs:    blobs,
		appURL:   strings.TrimRight(appURL, "/"),
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates the user and sends the verification token. The user is
// committed before delivery; a delivery failure is returned as-is and the
// record stays in place.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.creds.RegisterUser(ctx, in.Email, in.Password, in.FullName)
	if err != nil {
		return nil, err
	}
	if err := s.notify(ctx, domain.PurposeVerifyEmail, user.Email, user.VerificationToken); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := s.users.FindByVerificationToken(ctx, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = s.now().UTC()
	return s.users.Update(ctx, user)
}

// Login checks credentials, then account state, then issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	principal, err := s.creds.Verify(ctx, domain.KindUser, email, password)
	if err != nil {
		return nil, err
	}
	user := principal.(*domain.User)
	if !user.IsActive {
		return nil, domain.ErrPrincipalInactive
	}
	if !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}
	return issue(s.issuer, user.Email)
}

func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	return s.revoker.Revoke(ctx, token, expiresAt)
}

// ForgotPassword stores a fresh reset token and sends it. Unknown emails
// succeed silently so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Debug().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	user.ResetToken = uuid.NewString()
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.notify(ctx, domain.PurposeResetPassword, user.Email, user.ResetToken)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := s.users.FindByResetToken(ctx, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	hash, err := s.creds.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	user.UpdatedAt = s.now().UTC()
	return s.users.Update(ctx, user)
}

// UpdateProfile renames the user and, when an avatar is attached, stores it
// under profile_images/.
func (s *AuthService) UpdateProfile(ctx context.Context, user *domain.User, in ports.ProfileUpdate) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	updated := *user
	if name := strings.TrimSpace(in.FullName); name != "" {
		updated.FullName = name
	}
	if len(in.Avatar) > 0 {
		loc, err := s.blobs.Store(ctx, in.Avatar, uploadName("profile_images", in.AvatarExt))
		if err != nil {
			return nil, fmt.Errorf("store avatar: %w", err)
		}
		updated.Image = loc
	}
	updated.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *AuthService) notify(ctx context.Context, purpose domain.NotificationPurpose, recipient, tok string) error {
	n := domain.Notification{
		Purpose:   purpose,
		Recipient: recipient,
		Token:     tok,
		Link:      s.link(purpose, tok),
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("purpose", string(purpose)).Msg("notification delivery failed")
		return fmt.Errorf("send %s notification: %w", purpose, err)
	}
	return nil
}

func (s *AuthService) link(purpose domain.NotificationPurpose, tok string) string {
	if s.appURL == "" {
		return ""
	}
	route := "/api/v1/auth/verify"
	if purpose == domain.PurposeResetPassword {
		route = "/api/v1/auth/reset"
	}
	return s.appURL + route + "?token=" + url.QueryEscape(tok)
}

func issue(issuer TokenIssuer, subject string) (*ports.LoginResult, error) {
	issued, err := issuer.Issue(subject)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.LoginResult{
		AccessToken: issued.Token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   issued.ExpiresAt,
	}, nil
}

// uploadName builds dir/<uuid><ext> for a stored upload.
func uploadName(dir, ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(dir, uuid.NewString()+strings.ToLower(ext))
}
