package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRevocationKey(t *testing.T) {
	a := revocationKey("header.payload.signature")
	b := revocationKey("header.payload.signature2")

	if !strings.HasPrefix(a, revokedPrefix) {
		t.Fatalf("expected prefix %q, got %q", revokedPrefix, a)
	}
	if len(a) != len(revokedPrefix)+64 {
		t.Fatalf("expected a hex sha256 suffix, got %q", a)
	}
	if a == b {
		t.Fatal("distinct tokens must map to distinct keys")
	}
	if strings.Contains(a, "payload") {
		t.Fatal("raw token must not appear in the key")
	}
}

func newTestCache(t *testing.T) (*RevocationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationCache(client), mr
}

func TestRevocationCache_MarkAndLookup(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	tok := "header.payload.signature"

	revoked, err := cache.IsRevoked(ctx, tok)
	if err != nil || revoked {
		t.Fatalf("fresh token: revoked=%v err=%v", revoked, err)
	}

	if err := cache.MarkRevoked(ctx, tok, 10*time.Minute); err != nil {
		t.Fatalf("mark: %v", err)
	}
	revoked, err = cache.IsRevoked(ctx, tok)
	if err != nil || !revoked {
		t.Fatalf("marked token: revoked=%v err=%v", revoked, err)
	}
	if ttl := mr.TTL(revocationKey(tok)); ttl != 10*time.Minute {
		t.Fatalf("expected 10m ttl, got %v", ttl)
	}
	if other, _ := cache.IsRevoked(ctx, tok+"x"); other {
		t.Fatal("a different token must not be reported revoked")
	}

	// entries lapse with the token's own expiry
	mr.FastForward(11 * time.Minute)
	revoked, err = cache.IsRevoked(ctx, tok)
	if err != nil || revoked {
		t.Fatalf("after expiry: revoked=%v err=%v", revoked, err)
	}
}

func TestRevocationCache_NonPositiveTTLSkipsWrite(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	for _, ttl := range []time.Duration{0, -time.Second} {
		if err := cache.MarkRevoked(ctx, "expired.token.sig", ttl); err != nil {
			t.Fatalf("ttl %v: %v", ttl, err)
		}
	}
	if mr.Exists(revocationKey("expired.token.sig")) {
		t.Fatal("nothing should be written for an already-expired token")
	}
}

func TestRevocationCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	if _, err := cache.IsRevoked(context.Background(), "a.b.c"); err == nil {
		t.Fatal("expected lookup error with the server gone")
	}
}
