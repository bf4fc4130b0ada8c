package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantLog  bool
	}{
		{"account exists", domain.ErrAccountExists, http.StatusConflict, "Email already exists", false},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrAccountNotFound), http.StatusNotFound, "User not found", false},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials", false},
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized, "unauthenticated", false},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden", false},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed", false},
		{"hashing failure", fmt.Errorf("%w: boom", domain.ErrHashing), http.StatusInternalServerError, "internal server error", true},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "internal server error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			e := echo.New()
			e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.New(&logBuf))

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			e.HTTPErrorHandler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
			if tt.wantLog != (logBuf.Len() > 0) {
				t.Fatalf("logged=%v, want %v", logBuf.Len() > 0, tt.wantLog)
			}
			if bytes.Contains(rec.Body.Bytes(), []byte("boom")) || bytes.Contains(rec.Body.Bytes(), []byte("exploded")) {
				t.Fatalf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Fatalf("committed response was rewritten: %q", rec.Body.String())
	}
}
