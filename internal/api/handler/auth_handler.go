package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/api/metrics"
	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

type verifyRequest struct {
	Token string `query:"token" validate:"required"`
}

type profileRequest struct {
	FullName string `form:"full_name" validate:"required,max=255"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type envelopeLogin struct {
	Envelope
	Data loginResponse `json:"data"`
}

type envelopeUser struct {
	Envelope
	Data domain.User `json:"data"`
}

// Register creates a user account and mails a verification token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  envelopeUser
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Verification Mail Sent Successfully", user)
}

// Verify consumes an email verification token.
//
// @Summary      Verify email
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  Envelope
// @Failure      400    {object}  Envelope
// @Router       /api/v1/auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Account verified successfully", nil)
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelopeLogin
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthLoginsTotal.WithLabelValues(string(domain.KindUser), loginResult(err)).Inc()
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login Successful", toLoginResponse(res))
}

// Logout revokes the presented token. Repeating it with the same token
// succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ac, _, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), ac.Token, ac.Claims.Expiry()); err != nil {
		return err
	}
	metrics.AuthRevocationsTotal.WithLabelValues(string(domain.KindUser)).Inc()
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// ForgotPassword mails a reset token when the email belongs to a user.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset link sent", nil)
}

// ResetPassword consumes a reset token and sets a new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset successfully", nil)
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelopeUser
// @Failure      401  {object}  Envelope
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	_, user, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User profile fetched successfully", user)
}

// UpdateProfile renames the caller and optionally replaces the avatar.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        full_name  formData  string  true   "Full name"
// @Param        file       formData  file    false  "Avatar image"
// @Success      200        {object}  envelopeUser
// @Failure      400        {object}  Envelope
// @Failure      401        {object}  Envelope
// @Router       /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	_, user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	avatar, err := formUpload(c, "file")
	if err != nil {
		return err
	}

	in := ports.ProfileUpdate{FullName: req.FullName}
	if avatar != nil {
		in.Avatar, in.AvatarExt = avatar.Data, avatar.Ext
	}
	updated, err := h.authService.UpdateProfile(c.Request().Context(), user, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile updated successfully", updated)
}

func toLoginResponse(res *ports.LoginResult) loginResponse {
	return loginResponse{AccessToken: res.AccessToken, TokenType: res.TokenType, ExpiresAt: res.ExpiresAt.UTC()}
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrEmailNotVerified):
		return "unverified"
	case errors.Is(err, domain.ErrPrincipalInactive):
		return "inactive"
	default:
		return "error"
	}
}
