package ports

import (
	"context"
	"time"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// UserRepository persists User principals. Emails are unique within the
// user namespace; Create returns domain.ErrEmailTaken on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// AdminRepository persists Admin principals in a namespace independent of
// users.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// RevocationRepository is the durable side of the revocation ledger.
// Insert must be idempotent: a duplicate token is not an error.
type RevocationRepository interface {
	Insert(ctx context.Context, token *domain.RevokedToken) error
	Exists(ctx context.Context, token string) (bool, error)
}

// RevocationCache is an optional fast path in front of the repository. It
// only ever holds positive entries.
type RevocationCache interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	MarkRevoked(ctx context.Context, token string, ttl time.Duration) error
}
