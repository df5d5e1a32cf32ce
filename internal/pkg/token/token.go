// Package token mints and verifies the HMAC-signed bearer tokens shared by
// the user and admin scopes. Both halves are pure: their only inputs are the
// token string, the configured secret and algorithm, and the clock.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Callers at the HTTP boundary collapse all three
// into a single response.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
)

const DefaultTTL = 30 * time.Minute

// Config is built once at startup and shared by Issuer and Verifier.
type Config struct {
	Secret    []byte
	Algorithm string
	TTL       time.Duration
}

// Claims are the signed payload. Subject carries the principal email.
type Claims struct {
	jwt.RegisteredClaims
}

// Option customises an Issuer or Verifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (c Config) signingMethod() (*jwt.SigningMethodHMAC, error) {
	if len(c.Secret) == 0 {
		return nil, errors.New("token: secret is empty")
	}
	alg := c.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("token: unsupported algorithm %q", alg)
	}
}
