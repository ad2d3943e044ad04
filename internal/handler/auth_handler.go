package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	SubmitViewerPassword(ctx context.Context, sessionID, password string) (*model.AuthSession, error)
	SubmitEditorPassword(ctx context.Context, sessionID, password string) (*model.AuthSession, error)
	Logout(ctx context.Context, sessionID string) (*model.AuthSession, error)
}

// AuthHandler はパスワード認証とセッション状態のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// passwordRequest はパスワード入力リクエストのボディ。
type passwordRequest struct {
	Password string `json:"password"`
}

// ViewerLogin は店舗アクセスパスワードを検証する。
// POST /api/auth/viewer
func (h *AuthHandler) ViewerLogin(w http.ResponseWriter, r *http.Request) {
	h.submitPassword(w, r, h.service.SubmitViewerPassword)
}

// EditorLogin は編集者パスワードを検証する。
// POST /api/auth/editor
func (h *AuthHandler) EditorLogin(w http.ResponseWriter, r *http.Request) {
	h.submitPassword(w, r, h.service.SubmitEditorPassword)
}

func (h *AuthHandler) submitPassword(
	w http.ResponseWriter,
	r *http.Request,
	submit func(ctx context.Context, sessionID, password string) (*model.AuthSession, error),
) {
	var req passwordRequest
	if err := decodeJSON(r, &req, false); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	session, err := submit(r.Context(), middleware.SessionIDFromContext(r.Context()), req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// Logout は編集者ログインを解除する。閲覧認証は維持する。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Logout(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	slog.Info("editor logged out", slog.String("session_id", session.ID))
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// Session は現在のセッション状態を返す。未認証でも200を返す。
// GET /api/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}
