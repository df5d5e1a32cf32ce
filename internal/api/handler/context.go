package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/api/middleware"
	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// authContext returns the AuthContext attached by the guard. Its absence
// means the route was mounted outside every scope.
func authContext(c echo.Context) (*middleware.AuthContext, error) {
	ac, ok := middleware.AuthFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgMissingHeader)
	}
	return ac, nil
}

func currentUser(c echo.Context) (*middleware.AuthContext, *domain.User, error) {
	ac, err := authContext(c)
	if err != nil {
		return nil, nil, err
	}
	user, ok := ac.Principal.(*domain.User)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgMissingHeader)
	}
	return ac, user, nil
}

func currentAdmin(c echo.Context) (*middleware.AuthContext, *domain.Admin, error) {
	ac, err := authContext(c)
	if err != nil {
		return nil, nil, err
	}
	admin, ok := ac.Principal.(*domain.Admin)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgMissingHeader)
	}
	return ac, admin, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
