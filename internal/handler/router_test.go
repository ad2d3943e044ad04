package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/hitoshi/kitchenmanual/internal/auth"
	"github.com/hitoshi/kitchenmanual/internal/bulletin"
	"github.com/hitoshi/kitchenmanual/internal/dispatch"
	"github.com/hitoshi/kitchenmanual/internal/food"
	"github.com/hitoshi/kitchenmanual/internal/guide"
	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
	"github.com/hitoshi/kitchenmanual/internal/repository"
	"github.com/hitoshi/kitchenmanual/internal/security"
)

const (
	routerViewerSecret = "kitchen"
	routerEditorSecret = "chef"
)

// testClient はCookieを保持し、CSRFトークンを自動で付与するテスト用クライアント。
type testClient struct {
	t       *testing.T
	baseURL string
	http    *http.Client
	csrf    string
}

// newTestServer は実サービスとCSVリポジトリで構成したルーターを起動する。
func newTestServer(t *testing.T) *testClient {
	t.Helper()
	dir := t.TempDir()

	sessionRepo := repository.NewMemorySessionRepo()
	authService := auth.NewService(
		auth.NewGate(routerViewerSecret, routerEditorSecret),
		sessionRepo,
		nil,
		auth.ServiceConfig{SessionMaxAge: 3600},
	)
	catalog := guide.DefaultCatalog()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(), nil)
	t.Cleanup(rl.Stop)

	router := NewRouter(&RouterDeps{
		Sessions:          authService,
		SessionConfig:     middleware.SessionConfig{MaxAge: 3600},
		RateLimiter:       rl,
		AuthService:       authService,
		FoodService:       food.NewService(repository.NewCSVFoodRepo(filepath.Join(dir, "item_list.csv")), nil, nil),
		BulletinService:   bulletin.NewService(repository.NewCSVBulletinRepo(filepath.Join(dir, "keijiban.csv")), security.NewContentSanitizer(), nil, nil),
		NavigationService: dispatch.NewService(dispatch.NewDispatcher(catalog), sessionRepo),
		GuideService:      guide.NewService(catalog, guide.NewAssetResolver(dir)),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	c := &testClient{t: t, baseURL: srv.URL, http: &http.Client{Jar: jar}}

	var tok struct {
		Token string `json:"token"`
	}
	resp := c.do(http.MethodGet, "/api/csrf-token", nil, &tok)
	if resp.StatusCode != http.StatusOK || tok.Token == "" {
		t.Fatalf("failed to get csrf token: status=%d", resp.StatusCode)
	}
	c.csrf = tok.Token
	return c
}

func (c *testClient) do(method, path string, body any, out any) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status = %d, want %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want)
	}
}

func TestRouter_Health_NoSessionCookie(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodGet, "/health", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			t.Error("/health should not issue a session cookie")
		}
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestRouter_UnauthenticatedSession_OnlySeesGate(t *testing.T) {
	c := newTestServer(t)

	var s sessionResponse
	expectStatus(t, c.do(http.MethodGet, "/api/session", nil, &s), http.StatusOK)
	if s.Authenticated || len(s.Menu) != 0 {
		t.Errorf("session = %+v, want unauthenticated without menu", s)
	}

	for _, path := range []string{"/api/foods", "/api/bulletin", "/api/guide/dishes", "/api/guide/map"} {
		expectStatus(t, c.do(http.MethodGet, path, nil, nil), http.StatusUnauthorized)
	}
	expectStatus(t, c.do(http.MethodPost, "/api/navigate", navigateRequest{Page: "bulletin"}, nil), http.StatusUnauthorized)
}

func TestRouter_MissingCSRFToken_Returns403(t *testing.T) {
	c := newTestServer(t)
	c.csrf = ""

	var body middleware.ErrorResponseBody
	expectStatus(t, c.do(http.MethodPost, "/api/auth/viewer", passwordRequest{Password: routerViewerSecret}, &body), http.StatusForbidden)
	if body.Code != model.ErrCodeCSRFInvalid {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeCSRFInvalid)
	}
}

// TestRouter_PasswordAttemptsWithoutSessionCookie_AreLimited はセッションCookieを送らずに
// パスワード入力を繰り返しても、接続元単位の上限で429になることを検証する。
func TestRouter_PasswordAttemptsWithoutSessionCookie_AreLimited(t *testing.T) {
	c := newTestServer(t)
	client := &http.Client{}

	attempt := func() int {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/auth/viewer",
			bytes.NewBufferString(`{"password":"wrong"}`))
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "fixed-token"})
		req.Header.Set("X-CSRF-Token", "fixed-token")
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	burst := middleware.DefaultRateLimiterConfig().AuthBurst
	for i := 0; i < burst; i++ {
		if code := attempt(); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, code)
		}
	}
	if code := attempt(); code != http.StatusTooManyRequests {
		t.Errorf("attempt after burst: status = %d, want 429", code)
	}
}

// TestRouter_ViewerFlow は閲覧者としてログインし、掲示板に投稿して一覧できることを検証する。
func TestRouter_ViewerFlow(t *testing.T) {
	c := newTestServer(t)

	expectStatus(t, c.do(http.MethodPost, "/api/auth/viewer", passwordRequest{Password: "wrong"}, nil), http.StatusUnauthorized)

	var s sessionResponse
	expectStatus(t, c.do(http.MethodPost, "/api/auth/viewer", passwordRequest{Password: routerViewerSecret}, &s), http.StatusOK)
	if !s.Authenticated || s.IsEditor || len(s.Menu) != 6 {
		t.Fatalf("session = %+v", s)
	}

	// 閲覧者は食材を登録できない
	add := addFoodRequest{Name: "卵", DateLabel: "当日", Category: "年中"}
	expectStatus(t, c.do(http.MethodPost, "/api/foods", add, nil), http.StatusForbidden)
	expectStatus(t, c.do(http.MethodGet, "/api/foods/table", nil, nil), http.StatusForbidden)

	expectStatus(t, c.do(http.MethodPost, "/api/bulletin", addPostRequest{Category: "天フ", Content: "油はねに注意"}, nil), http.StatusCreated)

	var list bulletinListResponse
	expectStatus(t, c.do(http.MethodGet, "/api/bulletin?category="+url.QueryEscape("天フ"), nil, &list), http.StatusOK)
	if len(list.Posts) != 1 || list.Posts[0].Content != "油はねに注意" {
		t.Errorf("posts = %+v", list.Posts)
	}
}

// TestRouter_EditorFlow は編集者として食材を登録・削除し、ログアウト後も閲覧できることを検証する。
func TestRouter_EditorFlow(t *testing.T) {
	c := newTestServer(t)

	expectStatus(t, c.do(http.MethodPost, "/api/auth/viewer", passwordRequest{Password: routerViewerSecret}, nil), http.StatusOK)
	expectStatus(t, c.do(http.MethodPost, "/api/auth/editor", passwordRequest{Password: routerEditorSecret}, nil), http.StatusOK)

	expectStatus(t, c.do(http.MethodPost, "/api/foods", addFoodRequest{Name: "牛乳", DateLabel: "2日後", Category: "フェア9月〜"}, nil), http.StatusCreated)
	expectStatus(t, c.do(http.MethodPost, "/api/foods", addFoodRequest{Name: "卵", DateLabel: "当日", Category: "年中"}, nil), http.StatusCreated)

	var list foodListResponse
	expectStatus(t, c.do(http.MethodGet, "/api/foods?filter="+url.QueryEscape(model.FilterShowAll), nil, &list), http.StatusOK)
	if len(list.Entries) != 2 || list.Entries[0].Name != "卵" || list.Entries[1].Name != "牛乳" {
		t.Fatalf("entries = %+v, want [卵 牛乳]", list.Entries)
	}
	if !list.CanEdit {
		t.Error("can_edit should be true")
	}

	// 行の内容が一致しない削除は409
	stale := deleteFoodRequest{Expected: &model.FoodItem{Name: "卵", DateLabel: model.DateToday, Category: "年中"}}
	expectStatus(t, c.do(http.MethodDelete, "/api/foods/0", stale, nil), http.StatusConflict)
	expectStatus(t, c.do(http.MethodDelete, "/api/foods/5", nil, nil), http.StatusNotFound)

	var table foodTableResponse
	expectStatus(t, c.do(http.MethodDelete, "/api/foods/0", nil, &table), http.StatusOK)
	if len(table.Rows) != 1 || table.Rows[0].Name != "卵" {
		t.Errorf("rows = %+v", table.Rows)
	}

	var s sessionResponse
	expectStatus(t, c.do(http.MethodPost, "/api/auth/logout", nil, &s), http.StatusOK)
	if !s.Authenticated || s.IsEditor {
		t.Errorf("session after logout = %+v", s)
	}
	expectStatus(t, c.do(http.MethodGet, "/api/foods", nil, nil), http.StatusOK)
	expectStatus(t, c.do(http.MethodGet, "/api/foods/table", nil, nil), http.StatusForbidden)
}

// TestRouter_NavigationFlow はメニュー遷移と厨房マップのエリア選択を検証する。
func TestRouter_NavigationFlow(t *testing.T) {
	c := newTestServer(t)
	expectStatus(t, c.do(http.MethodPost, "/api/auth/viewer", passwordRequest{Password: routerViewerSecret}, nil), http.StatusOK)

	var m kitchenMapResponse
	expectStatus(t, c.do(http.MethodPost, "/api/guide/map/areas/tenhu/select", nil, &m), http.StatusOK)
	if m.Session.Page != "kitchen_map" || m.View.Area != "tenhu" {
		t.Errorf("map = %+v", m)
	}
	expectStatus(t, c.do(http.MethodPost, "/api/guide/map/areas/unknown/select", nil, nil), http.StatusNotFound)

	var s sessionResponse
	expectStatus(t, c.do(http.MethodPost, "/api/navigate", navigateRequest{Page: "kitchen_map"}, &s), http.StatusOK)
	if s.MapView != model.MapOverview {
		t.Errorf("map_view = %q, want overview after navigation", s.MapView)
	}
	expectStatus(t, c.do(http.MethodPost, "/api/navigate", navigateRequest{Page: "settings"}, nil), http.StatusBadRequest)

	var d dishGuideResponse
	expectStatus(t, c.do(http.MethodPost, "/api/guide/dishes/dish_01/select", nil, &d), http.StatusOK)
	if d.View.Selected == nil || d.View.Selected.ID != "dish_01" {
		t.Errorf("selected = %+v", d.View.Selected)
	}
	var back dishGuideResponse
	expectStatus(t, c.do(http.MethodPost, "/api/guide/dishes/back", nil, &back), http.StatusOK)
	if back.View.Selected != nil {
		t.Error("selected should be cleared after back")
	}
}
