package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// PrincipalResolver maps a token subject to the principal it names, within
// one kind's namespace. Lookups are never cached so deactivation and
// deletion take effect on the next request.
type PrincipalResolver struct {
	users  ports.UserRepository
	admins ports.AdminRepository
}

func NewPrincipalResolver(users ports.UserRepository, admins ports.AdminRepository) *PrincipalResolver {
	return &PrincipalResolver{users: users, admins: admins}
}

func (r *PrincipalResolver) Resolve(ctx context.Context, kind domain.PrincipalKind, email string) (domain.Principal, error) {
	switch kind {
	case domain.KindUser:
		u, err := r.users.FindByEmail(ctx, email)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("resolve user: %w", err)
		}
		return u, nil
	case domain.KindAdmin:
		a, err := r.admins.FindByEmail(ctx, email)
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("resolve admin: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("resolve principal: unknown kind %q", kind)
	}
}
