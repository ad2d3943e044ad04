package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// newChainRouter は本番と同じ順序でミドルウェアを組んだルーターを返す。
func newChainRouter(provider SessionProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware())
	r.Use(NewSecurityHeadersMiddleware())
	r.Use(NewSessionMiddleware(provider, SessionConfig{MaxAge: 3600}))
	r.Use(NewCSRFMiddleware(CSRFConfig{}))

	r.Group(func(r chi.Router) {
		r.Use(RequireAuthenticated())
		r.Get("/api/bulletin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/api/bulletin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})
	return r
}

func viewerProvider() *mockSessionProvider {
	return &mockSessionProvider{
		findFn: func(ctx context.Context, id string) (*model.AuthSession, error) {
			return &model.AuthSession{ID: id, Authenticated: true, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
}

func TestMiddlewareChain_AuthenticatedGET(t *testing.T) {
	router := newChainRouter(viewerProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/bulletin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "viewer"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be applied")
	}
}

// TestMiddlewareChain_POSTWithoutCSRF_Returns403 は認証済みでもCSRFトークンなしのPOSTが拒否されることを検証する。
func TestMiddlewareChain_POSTWithoutCSRF_Returns403(t *testing.T) {
	router := newChainRouter(viewerProvider())

	req := httptest.NewRequest(http.MethodPost, "/api/bulletin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "viewer"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestMiddlewareChain_POSTWithCSRF_Passes(t *testing.T) {
	router := newChainRouter(viewerProvider())

	req := httptest.NewRequest(http.MethodPost, "/api/bulletin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "viewer"})
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "tok"})
	req.Header.Set("X-CSRF-Token", "tok")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

func TestMiddlewareChain_NewVisitor_Returns401WithCookies(t *testing.T) {
	router := newChainRouter(&mockSessionProvider{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bulletin", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	resp := w.Result()
	if findCookie(resp, SessionCookieName) == nil {
		t.Error("new visitor should receive a session cookie")
	}
	if findCookie(resp, "csrf_token") == nil {
		t.Error("new visitor should receive a CSRF cookie")
	}
}
