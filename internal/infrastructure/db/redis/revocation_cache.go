package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

// RevocationCache keeps revoked tokens in Redis until their natural expiry.
// Key format: revoked:<sha256(token) hex>
type RevocationCache struct {
	client redis.Cmdable
}

// NewRevocationCache wraps the given Redis client.
func NewRevocationCache(client redis.Cmdable) *RevocationCache {
	return &RevocationCache{client: client}
}

// IsRevoked reports whether the token has been marked.
func (c *RevocationCache) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation cache lookup: %w", err)
	}
	return n > 0, nil
}

// MarkRevoked records the token for ttl.
func (c *RevocationCache) MarkRevoked(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revocationKey(token), "1", ttl).Err()
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedPrefix + hex.EncodeToString(sum[:])
}
