package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/api/metrics"
	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

type AdminAuthHandler struct {
	authService ports.AdminAuthService
}

func NewAdminAuthHandler(authService ports.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{authService: authService}
}

type envelopeAdmin struct {
	Envelope
	Data domain.Admin `json:"data"`
}

// Login authenticates an admin.
//
// @Summary      Admin login
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelopeLogin
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /api/v1/admin/auth/login [post]
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthLoginsTotal.WithLabelValues(string(domain.KindAdmin), loginResult(err)).Inc()
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin login successful", toLoginResponse(res))
}

// Logout revokes the presented admin token.
//
// @Summary      Admin logout
// @Tags         admin-auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /api/v1/admin/auth/logout [post]
func (h *AdminAuthHandler) Logout(c echo.Context) error {
	ac, _, err := currentAdmin(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), ac.Token, ac.Claims.Expiry()); err != nil {
		return err
	}
	metrics.AuthRevocationsTotal.WithLabelValues(string(domain.KindAdmin)).Inc()
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the calling admin.
//
// @Summary      Current admin
// @Tags         admin-auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelopeAdmin
// @Failure      401  {object}  Envelope
// @Router       /api/v1/admin/auth/me [get]
func (h *AdminAuthHandler) Me(c echo.Context) error {
	_, admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin profile fetched successfully", admin)
}
