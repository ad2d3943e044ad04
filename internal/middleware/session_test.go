package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// --- モック定義 ---

type mockSessionProvider struct {
	findFn    func(ctx context.Context, id string) (*model.AuthSession, error)
	startFn   func(ctx context.Context) (*model.AuthSession, error)
	startCall int
}

func (m *mockSessionProvider) FindSession(ctx context.Context, id string) (*model.AuthSession, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionProvider) StartSession(ctx context.Context) (*model.AuthSession, error) {
	m.startCall++
	if m.startFn != nil {
		return m.startFn(ctx)
	}
	return &model.AuthSession{ID: "new-session", Page: model.PageHome, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) ErrorResponseBody {
	t.Helper()
	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

// --- NewSessionMiddleware ---

func TestSessionMiddleware_ValidCookie_InjectsSession(t *testing.T) {
	provider := &mockSessionProvider{
		findFn: func(ctx context.Context, id string) (*model.AuthSession, error) {
			if id == "valid-session-id" {
				return &model.AuthSession{ID: id, Authenticated: true}, nil
			}
			return nil, nil
		},
	}

	var captured *model.AuthSession
	handler := NewSessionMiddleware(provider, SessionConfig{MaxAge: 3600})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-session-id"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if captured == nil || captured.ID != "valid-session-id" || !captured.Authenticated {
		t.Errorf("session = %+v", captured)
	}
	if provider.startCall != 0 {
		t.Errorf("StartSession called %d times, want 0", provider.startCall)
	}
	if findCookie(w.Result(), SessionCookieName) != nil {
		t.Error("existing session should not reissue cookie")
	}
}

func TestSessionMiddleware_NoCookie_StartsSessionAndSetsCookie(t *testing.T) {
	provider := &mockSessionProvider{}

	var capturedID string
	handler := NewSessionMiddleware(provider, SessionConfig{MaxAge: 3600, CookieSecure: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if capturedID != "new-session" {
		t.Errorf("session id = %q, want new-session", capturedID)
	}
	c := findCookie(w.Result(), SessionCookieName)
	if c == nil {
		t.Fatal("expected session cookie")
	}
	if c.Value != "new-session" || !c.HttpOnly || !c.Secure || c.MaxAge != 3600 {
		t.Errorf("cookie = %+v", c)
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
}

func TestSessionMiddleware_ExpiredCookie_StartsNewSession(t *testing.T) {
	provider := &mockSessionProvider{}

	handler := NewSessionMiddleware(provider, SessionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if provider.startCall != 1 {
		t.Errorf("StartSession called %d times, want 1", provider.startCall)
	}
	if c := findCookie(w.Result(), SessionCookieName); c == nil || c.Value != "new-session" {
		t.Errorf("cookie = %+v, want new-session", c)
	}
}

func TestSessionMiddleware_FindError_Returns500(t *testing.T) {
	provider := &mockSessionProvider{
		findFn: func(ctx context.Context, id string) (*model.AuthSession, error) {
			return nil, errors.New("store unavailable")
		},
	}

	handler := NewSessionMiddleware(provider, SessionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "x"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInternal)
	}
}

func TestSessionMiddleware_StartError_Returns500(t *testing.T) {
	provider := &mockSessionProvider{
		startFn: func(ctx context.Context) (*model.AuthSession, error) {
			return nil, errors.New("uuid failure")
		},
	}

	handler := NewSessionMiddleware(provider, SessionConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestSessionFromContext_Empty(t *testing.T) {
	if _, ok := SessionFromContext(context.Background()); ok {
		t.Error("expected no session in empty context")
	}
	if id := SessionIDFromContext(context.Background()); id != "" {
		t.Errorf("id = %q, want empty", id)
	}
}

// --- RequireAuthenticated / RequireEditor ---

func serveWithSession(h http.Handler, s *model.AuthSession) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/foods", nil)
	if s != nil {
		req = req.WithContext(ContextWithSession(req.Context(), s))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequireAuthenticated(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireAuthenticated()(ok)

	tests := []struct {
		name    string
		session *model.AuthSession
		status  int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"unauthenticated", &model.AuthSession{ID: "s"}, http.StatusUnauthorized},
		{"viewer", &model.AuthSession{ID: "s", Authenticated: true}, http.StatusOK},
		{"editor", &model.AuthSession{ID: "s", Authenticated: true, IsEditor: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWithSession(h, tt.session)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized {
				if body := decodeErrorBody(t, w); body.Code != model.ErrCodeUnauthenticated {
					t.Errorf("code = %q", body.Code)
				}
			}
		})
	}
}

func TestRequireEditor(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireEditor()(ok)

	tests := []struct {
		name    string
		session *model.AuthSession
		status  int
		code    string
	}{
		{"unauthenticated", &model.AuthSession{ID: "s"}, http.StatusUnauthorized, model.ErrCodeUnauthenticated},
		{"viewer", &model.AuthSession{ID: "s", Authenticated: true}, http.StatusForbidden, model.ErrCodeEditorRequired},
		{"editor", &model.AuthSession{ID: "s", Authenticated: true, IsEditor: true}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWithSession(h, tt.session)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.code != "" {
				if body := decodeErrorBody(t, w); body.Code != tt.code {
					t.Errorf("code = %q, want %q", body.Code, tt.code)
				}
			}
		})
	}
}
