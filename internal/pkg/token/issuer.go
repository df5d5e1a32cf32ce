package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issued is a freshly signed token and its expiry.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Issuer signs tokens. It holds no state beyond its configuration.
type Issuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	method, err := cfg.signingMethod()
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := buildOptions(opts)
	return &Issuer{secret: cfg.Secret, method: method, ttl: ttl, now: o.now}, nil
}

// Issue signs a token for subject with the configured TTL.
func (i *Issuer) Issue(subject string) (Issued, error) {
	return i.IssueWithTTL(subject, i.ttl)
}

// IssueWithTTL signs a token for subject expiring ttl from now. A random jti
// keeps two tokens minted in the same second distinct.
func (i *Issuer) IssueWithTTL(subject string, ttl time.Duration) (Issued, error) {
	if subject == "" {
		return Issued{}, fmt.Errorf("issue token: %w", ErrMalformed)
	}
	now := i.now()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	return Issued{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}
