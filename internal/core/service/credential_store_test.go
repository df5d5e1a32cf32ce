package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

func newTestCredentialStore() (*CredentialStore, *stubUserRepo, *stubAdminRepo) {
	users := newStubUserRepo()
	admins := newStubAdminRepo()
	return NewCredentialStore(users, admins, bcrypt.MinCost), users, admins
}

func TestCredentialStore_RegisterUser_HashesPassword(t *testing.T) {
	store, _, _ := newTestCredentialStore()

	user, err := store.RegisterUser(context.Background(), "  alice@x.com ", "pw12345", "Alice")
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Fatalf("expected trimmed email, got %q", user.Email)
	}
	if user.PasswordHash == "pw12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.IsActive || user.IsVerified {
		t.Fatalf("expected active unverified user, got %+v", user)
	}
	if user.VerificationToken == "" {
		t.Fatalf("expected a verification token")
	}
}

func TestCredentialStore_RegisterUser_Duplicate(t *testing.T) {
	store, _, _ := newTestCredentialStore()
	ctx := context.Background()

	if _, err := store.RegisterUser(ctx, "bob@x.com", "pw", "Bob"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := store.RegisterUser(ctx, "bob@x.com", "other", "Bob 2"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCredentialStore_Verify_SameErrorForMissingAndWrongPassword(t *testing.T) {
	store, _, _ := newTestCredentialStore()
	ctx := context.Background()
	if _, err := store.RegisterUser(ctx, "carol@x.com", "right", "Carol"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, errMissing := store.Verify(ctx, domain.KindUser, "ghost@x.com", "right")
	_, errWrong := store.Verify(ctx, domain.KindUser, "carol@x.com", "wrong")

	if !errors.Is(errMissing, domain.ErrInvalidCredentials) {
		t.Fatalf("missing email: expected ErrInvalidCredentials, got %v", errMissing)
	}
	if !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrong)
	}
	if errMissing.Error() != errWrong.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errMissing, errWrong)
	}
}

func TestCredentialStore_Verify_Success(t *testing.T) {
	store, _, _ := newTestCredentialStore()
	ctx := context.Background()
	created, _ := store.RegisterUser(ctx, "dave@x.com", "s3cret", "Dave")

	p, err := store.Verify(ctx, domain.KindUser, " dave@x.com", "s3cret")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if p.Kind() != domain.KindUser || p.PrincipalID() != created.ID {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestCredentialStore_Verify_EmailIsCaseSensitive(t *testing.T) {
	store, _, _ := newTestCredentialStore()
	ctx := context.Background()
	_, _ = store.RegisterUser(ctx, "erin@x.com", "pw", "Erin")

	if _, err := store.Verify(ctx, domain.KindUser, "Erin@x.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialStore_NamespacesAreDisjoint(t *testing.T) {
	store, _, _ := newTestCredentialStore()
	ctx := context.Background()

	if _, err := store.RegisterUser(ctx, "alice@x.com", "user-pw", "Alice"); err != nil {
		t.Fatalf("register user failed: %v", err)
	}
	if _, err := store.RegisterAdmin(ctx, "alice@x.com", "admin-pw", "Alice Admin"); err != nil {
		t.Fatalf("same email as admin must be allowed, got %v", err)
	}

	if _, err := store.Verify(ctx, domain.KindAdmin, "alice@x.com", "user-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("user password must not open the admin account, got %v", err)
	}
	if _, err := store.Verify(ctx, domain.KindUser, "alice@x.com", "admin-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("admin password must not open the user account, got %v", err)
	}

	admin, err := store.Verify(ctx, domain.KindAdmin, "alice@x.com", "admin-pw")
	if err != nil {
		t.Fatalf("admin verify failed: %v", err)
	}
	if admin.Kind() != domain.KindAdmin {
		t.Fatalf("expected admin principal, got %s", admin.Kind())
	}
}

func TestCredentialStore_Verify_StoreErrorPropagates(t *testing.T) {
	store, users, _ := newTestCredentialStore()
	users.err = errStoreDown

	if _, err := store.Verify(context.Background(), domain.KindUser, "x@x.com", "pw"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestCredentialStore_Verify_EmptyInput(t *testing.T) {
	store, _, _ := newTestCredentialStore()
	if _, err := store.Verify(context.Background(), domain.KindUser, "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := store.Verify(context.Background(), domain.KindUser, "a@x.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialStore_PasswordOverBcryptLimit(t *testing.T) {
	store, users, admins := newTestCredentialStore()
	long := strings.Repeat("p", 73)

	if _, err := store.RegisterUser(context.Background(), "alice@x.com", long, "Alice"); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := store.RegisterAdmin(context.Background(), "root@x.com", long, "Root"); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if len(users.users) != 0 || len(admins.admins) != 0 {
		t.Fatalf("nothing should be stored, got %d users and %d admins", len(users.users), len(admins.admins))
	}

	// 72 bytes is the last accepted length, even in multi-byte runes
	if _, err := store.HashPassword(strings.Repeat("é", 36)); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}
}
