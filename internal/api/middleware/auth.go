package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/api/metrics"
	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/pkg/token"
)

// Client-facing rejection messages.
const (
	MsgMissingHeader   = "Authorization header missing or invalid"
	MsgTokenRevoked    = "Token has been revoked"
	MsgInvalidToken    = "Invalid or expired token"
	MsgUserNotFound    = "User not found"
	MsgAdminNotFound   = "Admin not found"
	MsgAccountDisabled = "Account is disabled"
)

type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type PrincipalResolver interface {
	Resolve(ctx context.Context, kind domain.PrincipalKind, email string) (domain.Principal, error)
}

// AuthContext is attached to the request context of every authenticated
// request. Handlers read it with AuthFromContext and never re-verify.
type AuthContext struct {
	Kind      domain.PrincipalKind
	Principal domain.Principal
	Token     string
	Claims    *token.Claims
}

type authContextKey struct{}

func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

func AuthFromContext(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey{}).(*AuthContext)
	return ac, ok && ac != nil
}

// Authenticator turns a bearer token into a principal of one kind.
type Authenticator struct {
	kind     domain.PrincipalKind
	ledger   RevocationChecker
	verifier TokenVerifier
	resolver PrincipalResolver
	logger   zerolog.Logger
}

func NewAuthenticator(kind domain.PrincipalKind, ledger RevocationChecker, verifier TokenVerifier, resolver PrincipalResolver, logger zerolog.Logger) *Authenticator {
	return &Authenticator{kind: kind, ledger: ledger, verifier: verifier, resolver: resolver, logger: logger}
}

func (a *Authenticator) Kind() domain.PrincipalKind { return a.kind }

// Authenticate extracts, checks and resolves the bearer token on r. The
// revocation check runs before signature verification and is skipped when
// allowRevoked is set. Rejections are returned as *echo.HTTPError.
func (a *Authenticator) Authenticate(r *http.Request, allowRevoked bool) (*AuthContext, error) {
	ctx := r.Context()

	raw, ok := bearerToken(r.Header.Get(echo.HeaderAuthorization))
	if !ok {
		return nil, a.reject("missing_header", MsgMissingHeader)
	}

	if !allowRevoked {
		revoked, err := a.ledger.IsRevoked(ctx, raw)
		if err != nil {
			a.rejected("error")
			return nil, fmt.Errorf("revocation lookup: %w", err)
		}
		if revoked {
			return nil, a.reject("revoked", MsgTokenRevoked)
		}
	}

	claims, err := a.verifier.Verify(raw)
	if err != nil {
		a.logger.Debug().Err(err).Str("scope", string(a.kind)).Msg("token rejected")
		return nil, a.reject("invalid_token", MsgInvalidToken)
	}

	principal, err := a.resolver.Resolve(ctx, a.kind, claims.Subject)
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		msg := MsgUserNotFound
		if a.kind == domain.KindAdmin {
			msg = MsgAdminNotFound
		}
		return nil, a.reject("not_found", msg)
	}
	if err != nil {
		a.rejected("error")
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	if !principal.Active() {
		return nil, a.reject("inactive", MsgAccountDisabled)
	}

	return &AuthContext{Kind: a.kind, Principal: principal, Token: raw, Claims: claims}, nil
}

// Middleware authenticates every request it wraps.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, err := a.Authenticate(c.Request(), false)
			if err != nil {
				return err
			}
			attach(c, ac)
			return next(c)
		}
	}
}

func (a *Authenticator) reject(reason, msg string) error {
	a.rejected(reason)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func (a *Authenticator) rejected(reason string) {
	metrics.AuthRejectionsTotal.WithLabelValues(string(a.kind), reason).Inc()
}

func attach(c echo.Context, ac *AuthContext) {
	req := c.Request()
	c.SetRequest(req.WithContext(WithAuth(req.Context(), ac)))
}

// bearerToken parses "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return "", false
	}
	return raw, true
}
