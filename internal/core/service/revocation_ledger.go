package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

// RevocationLedger records logged-out tokens. The repository is the source of
// truth; the cache, when present, only short-circuits positive lookups.
type RevocationLedger struct {
	repo   ports.RevocationRepository
	cache  ports.RevocationCache
	logger zerolog.Logger
	now    func() time.Time
}

// LedgerOption customises a RevocationLedger.
type LedgerOption func(*RevocationLedger)

// WithRevocationCache puts a positive cache in front of the repository.
func WithRevocationCache(cache ports.RevocationCache) LedgerOption {
	return func(l *RevocationLedger) { l.cache = cache }
}

// WithLedgerClock overrides time.Now.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(l *RevocationLedger) { l.now = now }
}

func NewRevocationLedger(repo ports.RevocationRepository, logger zerolog.Logger, opts ...LedgerOption) *RevocationLedger {
	l := &RevocationLedger{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Revoke adds token to the ledger. Revoking an already revoked token is a
// no-op. expiresAt is the token's natural expiry.
func (l *RevocationLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	now := l.now().UTC()
	entry := &domain.RevokedToken{Token: token, CreatedAt: now, ExpiresAt: expiresAt.UTC()}
	if err := l.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	if l.cache == nil {
		return nil
	}
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}
	if err := l.cache.MarkRevoked(ctx, token, ttl); err != nil {
		l.logger.Warn().Err(err).Msg("revocation cache write failed")
	}
	return nil
}

// IsRevoked reports whether token is in the ledger. Cache misses and cache
// errors fall through to the repository.
func (l *RevocationLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	if l.cache != nil {
		hit, err := l.cache.IsRevoked(ctx, token)
		switch {
		case err != nil:
			l.logger.Warn().Err(err).Msg("revocation cache read failed")
		case hit:
			return true, nil
		}
	}

	revoked, err := l.repo.Exists(ctx, token)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}
