package app

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"testing"
)

func newCookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// fetchCSRFToken はCSRFトークンを取得し、Cookieをクライアントに保存する。
func fetchCSRFToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	resp, err := client.Get(baseURL + "/api/csrf-token")
	if err != nil {
		t.Fatalf("failed to get csrf token: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode csrf token: %v", err)
	}
	return body.Token
}
