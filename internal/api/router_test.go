package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/api/cookie"
	"github.com/Prantik009/accusitions/internal/api/handler"
	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/service"
	"github.com/Prantik009/accusitions/internal/infrastructure/db/memory"
	"github.com/Prantik009/accusitions/internal/pkg/password"
	"github.com/Prantik009/accusitions/internal/pkg/token"
)

func newTestRouter(t *testing.T) (*echo.Echo, *token.Manager) {
	t.Helper()
	hasher, err := password.NewBcryptHasher(4)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	tokens, err := token.NewManager(token.Config{Secret: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Hour})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	repo := memory.NewAccountRepository()
	svc := service.NewAuthService(repo, hasher, zerolog.Nop())
	cookies := cookie.NewManager(cookie.Options{MaxAge: tokens.TTL()})

	e := NewRouter(Deps{
		Auth:       handler.NewAuthHandler(svc, tokens, cookies, nil, zerolog.Nop(), handler.AuthOptions{}),
		Health:     handler.NewHealthHandler(),
		Readiness:  handler.NewHealthDependenciesHandler(map[string]handler.Pinger{"store": repo}),
		Tokens:     tokens,
		CookieName: "token",
		Registry:   prometheus.NewRegistry(),
		Log:        zerolog.Nop(),
	})
	return e, tokens
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e, _ := newTestRouter(t)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "Hello from accusitions"},
		{"/api", http.StatusOK, "Accusition API is running!"},
		{"/health", http.StatusOK, `"status":"OK"`},
		{"/health/ready", http.StatusOK, `"store":{"status":"ok"}`},
		{"/metrics", http.StatusOK, "accusitions_"},
		{"/nope", http.StatusNotFound, `"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(e, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	e, _ := newTestRouter(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Header().Get(echo.HeaderXContentTypeOptions) != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("missing request id")
	}
}

func TestRouter_SessionLifecycle(t *testing.T) {
	e, _ := newTestRouter(t)

	signup := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"secret1"}`))
	signup.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, signup)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("signup: expected token cookie")
	}

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(session)
	if rec := serve(e, me); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ana@x.com") {
		t.Fatalf("me: unexpected %d %s", rec.Code, rec.Body.String())
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/auth/admin/ping", nil)
	admin.AddCookie(session)
	if rec := serve(e, admin); rec.Code != http.StatusForbidden {
		t.Fatalf("admin ping as user: expected 403, got %d", rec.Code)
	}

	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without cookie: expected 401, got %d", rec.Code)
	}

	signout := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	signout.AddCookie(session)
	if rec := serve(e, signout); rec.Code != http.StatusOK {
		t.Fatalf("signout: expected 200, got %d", rec.Code)
	}
}

func TestRouter_AdminPing(t *testing.T) {
	e, tokens := newTestRouter(t)
	signed, _, err := tokens.Issue("acc_1", "root@x.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signed})
	if rec := serve(e, req); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pong") {
		t.Fatalf("admin ping: unexpected %d %s", rec.Code, rec.Body.String())
	}
}
