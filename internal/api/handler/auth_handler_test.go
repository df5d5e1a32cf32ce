package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/papyrus/bookstore-api/internal/api/middleware"
	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/ports"
	"github.com/papyrus/bookstore-api/internal/pkg/token"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	verifyEmailFn    func(ctx context.Context, token string) error
	loginFn          func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn         func(ctx context.Context, token string, expiresAt time.Time) error
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, token, newPassword string) error
	updateProfileFn  func(ctx context.Context, user *domain.User, in ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyEmailFn(ctx, token)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	return s.logoutFn(ctx, token, expiresAt)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotPasswordFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetPasswordFn(ctx, token, newPassword)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, user *domain.User, in ports.ProfileUpdate) (*domain.User, error) {
	return s.updateProfileFn(ctx, user, in)
}

func newTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// withPrincipal attaches an AuthContext the way the scope guard does.
func withPrincipal(req *http.Request, p domain.Principal, raw string, exp time.Time) *http.Request {
	ac := &middleware.AuthContext{
		Kind:      p.Kind(),
		Principal: p,
		Token:     raw,
		Claims:    &token.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: p.PrincipalEmail(), ExpiresAt: jwt.NewNumericDate(exp)}},
	}
	return req.WithContext(middleware.WithAuth(req.Context(), ac))
}

func assertHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
	return he
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (Envelope, map[string]any) {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, _ := env.Data.(map[string]any)
	return env, data
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "ada@example.com" || in.FullName != "Ada" || in.Password != "secret" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, FullName: in.FullName, Email: in.Email, PasswordHash: "hash", IsActive: true}, nil
		},
	}
	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"full_name":"Ada","email":"ada@example.com","password":"secret"}`))

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	env, data := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "Verification Mail Sent Successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if data["email"] != "ada@example.com" || data["is_verified"] != false {
		t.Fatalf("unexpected user payload: %+v", data)
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Fatal("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	c, _ := newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"full_name":"Ada","email":"ada@example.com","password":"secret"}`))

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", "not-json"))
	assertHTTPError(t, h.Register(c), http.StatusBadRequest)

	c, _ = newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", `{"full_name":"Ada","password":"x"}`))
	he := assertHTTPError(t, h.Register(c), http.StatusBadRequest)
	if !strings.Contains(he.Message.(string), "email is required") {
		t.Fatalf("unexpected message: %v", he.Message)
	}

	c, _ = newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", `{"full_name":"Ada","email":"nope","password":"x"}`))
	assertHTTPError(t, h.Register(c), http.StatusBadRequest)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ada@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{AccessToken: "token123", TokenType: "bearer", ExpiresAt: exp}, nil
		},
	}
	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"secret"}`))

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env, data := decodeEnvelope(t, rec)
	if env.Message != "Login Successful" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if data["access_token"] != "token123" || data["token_type"] != "bearer" {
		t.Fatalf("unexpected login payload: %+v", data)
	}
	if data["expires_at"] != "2030-01-01T00:00:00Z" {
		t.Fatalf("unexpected expiry: %v", data["expires_at"])
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrEmailNotVerified, domain.ErrPrincipalInactive} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
				return nil, want
			},
		}
		c, _ := newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"bad"}`))
		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	var got string
	stub := &stubAuthService{
		verifyEmailFn: func(ctx context.Context, tok string) error {
			got = tok
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify?token=abc", nil))
	if err := h.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || got != "abc" {
		t.Fatalf("expected 200 with token abc, got %d %q", rec.Code, got)
	}

	c, _ = newTestContext(httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify", nil))
	assertHTTPError(t, h.Verify(c), http.StatusBadRequest)
}

func TestAuthHandler_Logout_RevokesPresentedToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	var gotToken string
	var gotExp time.Time
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, tok string, expiresAt time.Time) error {
			gotToken, gotExp = tok, expiresAt
			return nil
		},
	}
	user := &domain.User{ID: 1, Email: "ada@example.com", IsActive: true}
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), user, "raw-token", exp)
	c, rec := newTestContext(req)

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotToken != "raw-token" || !gotExp.Equal(exp) {
		t.Fatalf("unexpected revoke args: %q %v", gotToken, gotExp)
	}
}

func TestAuthHandler_Logout_WithoutAuthContext(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, tok string, expiresAt time.Time) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	c, _ := newTestContext(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	assertHTTPError(t, NewAuthHandler(stub).Logout(c), http.StatusUnauthorized)
}

func TestAuthHandler_Me_RejectsAdminPrincipal(t *testing.T) {
	admin := &domain.Admin{ID: 1, Email: "root@example.com", IsActive: true}
	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), admin, "raw", time.Now().Add(time.Hour))
	c, _ := newTestContext(req)

	assertHTTPError(t, NewAuthHandler(&stubAuthService{}).Me(c), http.StatusUnauthorized)
}

func TestAuthHandler_Me(t *testing.T) {
	user := &domain.User{ID: 7, FullName: "Ada", Email: "ada@example.com", IsActive: true, IsVerified: true}
	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), user, "raw", time.Now().Add(time.Hour))
	c, rec := newTestContext(req)

	if err := NewAuthHandler(&stubAuthService{}).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["id"] != float64(7) || data["email"] != "ada@example.com" {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestAuthHandler_ForgotAndResetPassword(t *testing.T) {
	var forgotFor, resetTok, resetPw string
	stub := &stubAuthService{
		forgotPasswordFn: func(ctx context.Context, email string) error {
			forgotFor = email
			return nil
		},
		resetPasswordFn: func(ctx context.Context, tok, pw string) error {
			resetTok, resetPw = tok, pw
			if tok == "stale" {
				return domain.ErrInvalidToken
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/forgot-password", `{"email":"ada@example.com"}`))
	if err := h.ForgotPassword(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("forgot-password: err=%v code=%d", err, rec.Code)
	}
	if forgotFor != "ada@example.com" {
		t.Fatalf("unexpected email %q", forgotFor)
	}

	c, rec = newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/reset-password", `{"token":"t1","new_password":"n3w"}`))
	if err := h.ResetPassword(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("reset-password: err=%v code=%d", err, rec.Code)
	}
	if resetTok != "t1" || resetPw != "n3w" {
		t.Fatalf("unexpected reset args %q %q", resetTok, resetPw)
	}

	c, _ = newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/reset-password", `{"token":"stale","new_password":"n3w"}`))
	if err := h.ResetPassword(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	c, _ = newTestContext(jsonRequest(http.MethodPost, "/api/v1/auth/reset-password", `{"token":"t1"}`))
	assertHTTPError(t, h.ResetPassword(c), http.StatusBadRequest)
}

func TestAuthHandler_UpdateProfile_WithAvatar(t *testing.T) {
	var got ports.ProfileUpdate
	stub := &stubAuthService{
		updateProfileFn: func(ctx context.Context, user *domain.User, in ports.ProfileUpdate) (*domain.User, error) {
			got = in
			updated := *user
			updated.FullName = in.FullName
			updated.Image = "/uploads/profile_images/x.png"
			return &updated, nil
		},
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("full_name", "Ada King")
	fw, _ := mw.CreateFormFile("file", "Avatar.PNG")
	_, _ = fw.Write([]byte("png-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	user := &domain.User{ID: 1, FullName: "Ada", Email: "ada@example.com", IsActive: true}
	c, rec := newTestContext(withPrincipal(req, user, "raw", time.Now().Add(time.Hour)))

	if err := NewAuthHandler(stub).UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.FullName != "Ada King" || string(got.Avatar) != "png-bytes" {
		t.Fatalf("unexpected update: %+v", got)
	}
	_, data := decodeEnvelope(t, rec)
	if data["image"] != "/uploads/profile_images/x.png" {
		t.Fatalf("unexpected payload: %+v", data)
	}
}
