package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// AdminAuthService handles admin login and logout. Admins have no
// verification step.
type AdminAuthService struct {
	creds   *CredentialStore
	issuer  TokenIssuer
	revoker Revoker
	logger  zerolog.Logger
}

func NewAdminAuthService(creds *CredentialStore, issuer TokenIssuer, revoker Revoker, logger zerolog.Logger) *AdminAuthService {
	return &AdminAuthService{creds: creds, issuer: issuer, revoker: revoker, logger: logger}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	principal, err := s.creds.Verify(ctx, domain.KindAdmin, email, password)
	if err != nil {
		return nil, err
	}
	if !principal.Active() {
		return nil, domain.ErrPrincipalInactive
	}
	return issue(s.issuer, principal.PrincipalEmail())
}

func (s *AdminAuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	return s.revoker.Revoke(ctx, token, expiresAt)
}

// SeedAdmin creates the bootstrap admin. An existing admin with the same
// email is left untouched.
func (s *AdminAuthService) SeedAdmin(ctx context.Context, email, password, fullName string) error {
	admin, err := s.creds.RegisterAdmin(ctx, email, password, fullName)
	if errors.Is(err, domain.ErrEmailTaken) {
		s.logger.Info().Str("email", email).Msg("admin seed already present")
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info().Int64("admin_id", admin.ID).Str("email", admin.Email).Msg("admin seeded")
	return nil
}
