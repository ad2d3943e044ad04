// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionContextKey はリクエストコンテキストにセッションを格納するためのキー。
var sessionContextKey = contextKey("session")

// SessionProvider はセッションの検索と発行に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type SessionProvider interface {
	FindSession(ctx context.Context, id string) (*model.AuthSession, error)
	StartSession(ctx context.Context) (*model.AuthSession, error)
}

// SessionConfig はセッションCookieの設定。
type SessionConfig struct {
	MaxAge       int // 秒
	CookieSecure bool
	CookieDomain string
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// リクエストコンテキストに注入するミドルウェアを返す。
// Cookieがない、または期限切れの場合は未認証の新しいセッションを発行してCookieを設定する。
// 認証状態の判定はRequireAuthenticated/RequireEditorで行う。
func NewSessionMiddleware(sessions SessionProvider, config SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var session *model.AuthSession

			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				found, err := sessions.FindSession(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("failed to find session", slog.String("error", err.Error()))
					WriteInternalServerError(w)
					return
				}
				session = found
			}

			if session == nil {
				started, err := sessions.StartSession(r.Context())
				if err != nil {
					slog.Error("failed to start session", slog.String("error", err.Error()))
					WriteInternalServerError(w)
					return
				}
				session = started
				SetSessionCookie(w, session.ID, config)
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

// SetSessionCookie はセッションIDのCookieを設定する。
func SetSessionCookie(w http.ResponseWriter, sessionID string, config SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   config.MaxAge,
		HttpOnly: true,
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromContext はリクエストコンテキストからセッションを取得する。
// 値はリクエスト開始時点のスナップショットで、ハンドラー内の更新は反映されない。
func SessionFromContext(ctx context.Context) (*model.AuthSession, bool) {
	s, ok := ctx.Value(sessionContextKey).(*model.AuthSession)
	return s, ok && s != nil
}

// SessionIDFromContext はリクエストコンテキストからセッションIDを取得する。
// セッションがない場合は空文字を返す。
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.ID
	}
	return ""
}

// ContextWithSession はコンテキストにセッションを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSession(ctx context.Context, session *model.AuthSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// RequireAuthenticated はアクセス認証済みのセッションのみを通すミドルウェアを返す。
// 未認証の場合は401を返す。SessionMiddlewareの後に配置する。
func RequireAuthenticated() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok || !s.Authenticated {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEditor は編集権限を持つセッションのみを通すミドルウェアを返す。
// 未認証の場合は401、閲覧のみの場合は403を返す。
func RequireEditor() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok || !s.Authenticated {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}
			if !s.IsEditor {
				WriteErrorResponse(w, http.StatusForbidden, model.NewEditorRequiredError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
