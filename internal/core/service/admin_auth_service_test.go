package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

func newAdminFixture() (*AdminAuthService, *stubAdminRepo, *stubRevocationRepo) {
	admins := newStubAdminRepo()
	creds := NewCredentialStore(newStubUserRepo(), admins, bcrypt.MinCost)
	revokes := newStubRevocationRepo()
	svc := NewAdminAuthService(creds, &stubIssuer{}, NewRevocationLedger(revokes, zerolog.Nop()), zerolog.Nop())
	return svc, admins, revokes
}

func TestAdminAuthService_SeedIsIdempotent(t *testing.T) {
	svc, admins, _ := newAdminFixture()
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "admin@example.com", "admin123", "Super Admin"); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := svc.SeedAdmin(ctx, "admin@example.com", "different", "Other"); err != nil {
		t.Fatalf("second seed must be a no-op, got %v", err)
	}
	if len(admins.admins) != 1 {
		t.Fatalf("expected one admin, got %d", len(admins.admins))
	}
	if _, err := svc.Login(ctx, "admin@example.com", "admin123"); err != nil {
		t.Fatalf("first seed password must still work: %v", err)
	}
}

func TestAdminAuthService_Login(t *testing.T) {
	svc, _, _ := newAdminFixture()
	ctx := context.Background()
	_ = svc.SeedAdmin(ctx, "root@x.com", "pw", "Root")

	res, err := svc.Login(ctx, "root@x.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.TokenType != "bearer" || res.AccessToken == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := svc.Login(ctx, "root@x.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@x.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminAuthService_Login_Inactive(t *testing.T) {
	svc, admins, _ := newAdminFixture()
	ctx := context.Background()
	_ = svc.SeedAdmin(ctx, "off@x.com", "pw", "Off")
	admins.admins["off@x.com"].IsActive = false

	if _, err := svc.Login(ctx, "off@x.com", "pw"); !errors.Is(err, domain.ErrPrincipalInactive) {
		t.Fatalf("expected ErrPrincipalInactive, got %v", err)
	}
}

func TestAdminAuthService_Logout(t *testing.T) {
	svc, _, revokes := newAdminFixture()
	if err := svc.Logout(context.Background(), "admin-tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := revokes.entries["admin-tok"]; !ok {
		t.Fatalf("expected token in ledger")
	}
}

func TestPrincipalResolver_Resolve(t *testing.T) {
	users := newStubUserRepo()
	admins := newStubAdminRepo()
	ctx := context.Background()
	_, _ = users.Create(ctx, &domain.User{Email: "u@x.com"})
	_, _ = admins.Create(ctx, &domain.Admin{Email: "a@x.com"})
	r := NewPrincipalResolver(users, admins)

	p, err := r.Resolve(ctx, domain.KindUser, "u@x.com")
	if err != nil || p.Kind() != domain.KindUser {
		t.Fatalf("expected user principal, got %v %v", p, err)
	}
	p, err = r.Resolve(ctx, domain.KindAdmin, "a@x.com")
	if err != nil || p.Kind() != domain.KindAdmin {
		t.Fatalf("expected admin principal, got %v %v", p, err)
	}

	// Each kind only sees its own namespace.
	if _, err := r.Resolve(ctx, domain.KindAdmin, "u@x.com"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if _, err := r.Resolve(ctx, domain.KindUser, "a@x.com"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}
