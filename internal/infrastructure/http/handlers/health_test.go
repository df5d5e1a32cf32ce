package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		deps     []Dependency
		wantCode int
		wantDown string
	}{
		{"all healthy", []Dependency{{"store", ok}, {"redis", ok}}, http.StatusOK, ""},
		{"cache down", []Dependency{{"store", ok}, {"redis", down}}, http.StatusServiceUnavailable, "redis"},
		{"no dependencies", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tt.deps...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var body struct {
				Success bool              `json:"success"`
				Data    readinessResponse `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Success != (tt.wantCode == http.StatusOK) {
				t.Fatalf("unexpected success flag %v", body.Success)
			}
			if tt.wantDown != "" && body.Data.Dependencies[tt.wantDown].Status != "unhealthy" {
				t.Fatalf("expected %s to be unhealthy, got %+v", tt.wantDown, body.Data.Dependencies)
			}
		})
	}
}
