package domain

import "time"

// RevokedToken is a ledger entry. Once stored, the token is rejected by
// every authenticator regardless of its signature or remaining lifetime.
// ExpiresAt is the token's natural expiry and only serves external cleanup.
type RevokedToken struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
