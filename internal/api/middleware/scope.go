package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// ScopeRule binds a path prefix to the authenticator that guards it.
// Public and AllowRevoked hold full request paths matched exactly (a
// trailing slash is ignored). AllowRevoked is meant for logout.
type ScopeRule struct {
	Name          string
	Prefix        string
	Public        []string
	AllowRevoked  []string
	Authenticator *Authenticator
}

// Guard evaluates an ordered list of scopes once per request. A path that
// falls outside every prefix passes through unauthenticated.
type Guard struct {
	rules []scope
}

type scope struct {
	ScopeRule
	public       map[string]struct{}
	allowRevoked map[string]struct{}
}

// NewGuard validates rules. Overlapping prefixes are a configuration error.
func NewGuard(rules ...ScopeRule) (*Guard, error) {
	g := &Guard{}
	for _, r := range rules {
		if r.Authenticator == nil {
			return nil, fmt.Errorf("scope %q: authenticator is required", r.Name)
		}
		prefix := cleanPath(r.Prefix)
		if prefix == "" || prefix == "/" {
			return nil, fmt.Errorf("scope %q: prefix must name a path below /", r.Name)
		}
		for _, other := range g.rules {
			if hasPathPrefix(prefix, other.Prefix) || hasPathPrefix(other.Prefix, prefix) {
				return nil, fmt.Errorf("scope %q: prefix %s overlaps scope %q (%s)", r.Name, prefix, other.Name, other.Prefix)
			}
		}

		s := scope{ScopeRule: r, public: pathSet(r.Public), allowRevoked: pathSet(r.AllowRevoked)}
		s.Prefix = prefix
		for p := range s.public {
			if !hasPathPrefix(p, prefix) {
				return nil, fmt.Errorf("scope %q: public path %s is outside %s", r.Name, p, prefix)
			}
		}
		g.rules = append(g.rules, s)
	}
	if len(g.rules) == 0 {
		return nil, errors.New("guard: at least one scope is required")
	}
	return g, nil
}

// Middleware authenticates requests that fall inside a scope and attaches
// the resulting AuthContext.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := cleanPath(c.Request().URL.Path)
			s := g.match(path)
			if s == nil {
				return next(c)
			}
			if _, ok := s.public[path]; ok {
				return next(c)
			}

			_, allowRevoked := s.allowRevoked[path]
			ac, err := s.Authenticator.Authenticate(c.Request(), allowRevoked)
			if err != nil {
				return err
			}
			attach(c, ac)
			return next(c)
		}
	}
}

func (g *Guard) match(path string) *scope {
	for i := range g.rules {
		if hasPathPrefix(path, g.rules[i].Prefix) {
			return &g.rules[i]
		}
	}
	return nil
}

// hasPathPrefix is a segment-aware prefix test: /api/v1/auth matches
// /api/v1/auth/login but not /api/v1/authors.
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func pathSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[cleanPath(p)] = struct{}{}
	}
	return set
}
