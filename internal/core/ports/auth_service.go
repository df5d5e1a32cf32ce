package ports

import (
	"context"
	"time"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by user registration.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// LoginResult is returned by both login flows.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// ProfileUpdate carries an optional avatar upload next to the new name.
type ProfileUpdate struct {
	FullName  string
	Avatar    []byte
	AvatarExt string
}

// AuthService drives the user-facing account lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, user *domain.User, in ProfileUpdate) (*domain.User, error)
}

// AdminAuthService drives admin login and logout.
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
}
