package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/papyrus/bookstore-api/docs"
	"github.com/papyrus/bookstore-api/internal/api/handler"
	"github.com/papyrus/bookstore-api/internal/api/middleware"
	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
	infrahttp "github.com/papyrus/bookstore-api/internal/infrastructure/http"
	"github.com/papyrus/bookstore-api/internal/infrastructure/http/handlers"
)

const (
	UserPrefix  = "/api/v1/auth"
	AdminPrefix = "/api/v1/admin"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Logger zerolog.Logger

	AuthService      ports.AuthService
	AdminAuthService ports.AdminAuthService
	Catalog          ports.CatalogService

	UserAuthenticator  *middleware.Authenticator
	AdminAuthenticator *middleware.Authenticator

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness []handlers.Dependency
	// UploadDir is served at /uploads when set.
	UploadDir string
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// DefaultScopes returns the user and admin scope rules.
func DefaultScopes(user, admin *middleware.Authenticator) []middleware.ScopeRule {
	return []middleware.ScopeRule{
		{
			Name:   string(domain.KindUser),
			Prefix: UserPrefix,
			Public: []string{
				UserPrefix + "/login",
				UserPrefix + "/register",
				UserPrefix + "/verify",
				UserPrefix + "/forgot-password",
				UserPrefix + "/reset-password",
			},
			AllowRevoked:  []string{UserPrefix + "/logout"},
			Authenticator: user,
		},
		{
			Name:          string(domain.KindAdmin),
			Prefix:        AdminPrefix,
			Public:        []string{AdminPrefix + "/auth/login"},
			AllowRevoked:  []string{AdminPrefix + "/auth/logout"},
			Authenticator: admin,
		},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	guard, err := middleware.NewGuard(DefaultScopes(d.UserAuthenticator, d.AdminAuthenticator)...)
	if err != nil {
		return nil, fmt.Errorf("build guard: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderOrigin, echo.HeaderAccept},
	}))
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bookstore",
		Registerer: reg,
	}))
	e.Use(guard.Middleware())

	// --- Operational endpoints (outside every scope) ---
	infrahttp.RegisterProbes(e, d.Readiness...)
	e.GET("/docs/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	// --- User scope ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	auth := e.Group(UserPrefix)
	auth.POST("/register", authHandler.Register)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	userOnly := auth.Group("", middleware.RequirePrincipal(domain.KindUser))
	userOnly.POST("/logout", authHandler.Logout)
	userOnly.GET("/me", authHandler.Me)
	userOnly.PUT("/profile", authHandler.UpdateProfile)

	// --- Admin scope ---
	adminAuthHandler := handler.NewAdminAuthHandler(d.AdminAuthService)
	admin := e.Group(AdminPrefix)
	admin.POST("/auth/login", adminAuthHandler.Login)

	adminOnly := admin.Group("", middleware.RequirePrincipal(domain.KindAdmin))
	adminOnly.POST("/auth/logout", adminAuthHandler.Logout)
	adminOnly.GET("/auth/me", adminAuthHandler.Me)

	books := handler.NewBookHandler(d.Catalog)
	adminOnly.POST("/books", books.Create)
	adminOnly.GET("/books", books.List)
	adminOnly.GET("/books/:id", books.Get)
	adminOnly.PUT("/books/:id", books.Update)
	adminOnly.DELETE("/books/:id", books.Delete)

	authors := handler.NewAuthorHandler(d.Catalog)
	adminOnly.POST("/authors", authors.Create)
	adminOnly.GET("/authors", authors.List)
	adminOnly.GET("/authors/:id", authors.Get)
	adminOnly.PUT("/authors/:id", authors.Update)
	adminOnly.DELETE("/authors/:id", authors.Delete)

	genres := handler.NewGenreHandler(d.Catalog)
	adminOnly.POST("/genres", genres.Create)
	adminOnly.GET("/genres", genres.List)
	adminOnly.GET("/genres/:id", genres.Get)
	adminOnly.PUT("/genres/:id", genres.Update)
	adminOnly.DELETE("/genres/:id", genres.Delete)

	return e, nil
}
