package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// RequirePrincipal rejects requests whose attached principal is not of kind.
func RequirePrincipal(kind domain.PrincipalKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, ok := AuthFromContext(c.Request().Context())
			if !ok || ac.Kind != kind || ac.Principal == nil || ac.Principal.Kind() != kind {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgMissingHeader)
			}
			return next(c)
		}
	}
}
