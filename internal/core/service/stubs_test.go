package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/pkg/token"
)

// ── Principal repositories ────────────────────────────────────────────────────

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
	err    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.Email] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.VerificationToken != "" && u.VerificationToken == token })
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ResetToken != "" && u.ResetToken == token })
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.Email] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) get(email string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[email])
}

type stubAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	admins map[string]*domain.Admin
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *stubAdminRepo) Create(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.admins[admin.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	copy := *admin
	copy.ID = r.nextID
	r.admins[copy.Email] = &copy
	out := copy
	return &out, nil
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[email]; ok {
		out := *a
		return &out, nil
	}
	return nil, domain.ErrAdminNotFound
}

// ── Revocation ────────────────────────────────────────────────────────────────

type stubRevocationRepo struct {
	mu      sync.Mutex
	entries map[string]domain.RevokedToken
	inserts int
	lookups int
	err     error
}

func newStubRevocationRepo() *stubRevocationRepo {
	return &stubRevocationRepo{entries: make(map[string]domain.RevokedToken)}
}

func (r *stubRevocationRepo) Insert(_ context.Context, t *domain.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.inserts++
	if _, ok := r.entries[t.Token]; !ok {
		r.entries[t.Token] = *t
	}
	return nil
}

func (r *stubRevocationRepo) Exists(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.entries[token]
	return ok, nil
}

type stubRevocationCache struct {
	mu      sync.Mutex
	entries map[string]time.Duration
	readErr error
}

func newStubRevocationCache() *stubRevocationCache {
	return &stubRevocationCache{entries: make(map[string]time.Duration)}
}

func (c *stubRevocationCache) IsRevoked(_ context.Context, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return false, c.readErr
	}
	_, ok := c.entries[token]
	return ok, nil
}

func (c *stubRevocationCache) MarkRevoked(_ context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = ttl
	return nil
}

// ── Collaborators ─────────────────────────────────────────────────────────────

type stubNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *stubNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *stubNotifier) last() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return domain.Notification{}, false
	}
	return n.sent[len(n.sent)-1], true
}

type stubBlobStore struct {
	names []string
	err   error
}

func (b *stubBlobStore) Store(_ context.Context, _ []byte, name string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.names = append(b.names, name)
	return "/uploads/" + name, nil
}

type stubIssuer struct {
	n   int
	err error
}

func (i *stubIssuer) Issue(subject string) (token.Issued, error) {
	if i.err != nil {
		return token.Issued{}, i.err
	}
	i.n++
	return token.Issued{
		Token:     subject + "-token-" + string(rune('a'+i.n)),
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

var errStoreDown = errors.New("store down")
