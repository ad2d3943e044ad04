// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// writeJSON はステータスコードとJSONボディを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeJSON はリクエストボディをJSONとして読み込む。
// allowEmptyがtrueの場合、空のボディはエラーにしない。
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// invalidRequestError はボディの解析失敗エラーを返す。
func invalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeValidation,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: model.CategoryValidation,
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは詳細をログに残し、500として返す。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("session_id", middleware.SessionIDFromContext(r.Context())),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation,
		model.ErrCodeInvalidDateLabel,
		model.ErrCodeInvalidBulletinCategory,
		model.ErrCodeUnknownPage:
		return http.StatusBadRequest
	case model.ErrCodeAuthFailed, model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeEditorRequired, model.ErrCodeCSRFInvalid:
		return http.StatusForbidden
	case model.ErrCodeNotFound, model.ErrCodeAssetNotFound, model.ErrCodeFoodPositionOutOfRange:
		return http.StatusNotFound
	case model.ErrCodeFoodPositionStale:
		return http.StatusConflict
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// menuItem はメニューの1項目。
type menuItem struct {
	Page  string `json:"page"`
	Label string `json:"label"`
}

// sessionResponse はセッション状態のAPIレスポンス。
// 未認証の場合はメニューを含めない。
type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	IsEditor      bool       `json:"is_editor"`
	Page          string     `json:"page"`
	MapView       string     `json:"map_view"`
	SelectedDish  string     `json:"selected_dish,omitempty"`
	Menu          []menuItem `json:"menu,omitempty"`
}

func toSessionResponse(s *model.AuthSession) sessionResponse {
	resp := sessionResponse{
		Authenticated: s.Authenticated,
		IsEditor:      s.IsEditor,
		Page:          string(s.Page),
		MapView:       s.MapView,
		SelectedDish:  s.SelectedDish,
	}
	if s.Authenticated {
		for _, p := range model.Pages() {
			resp.Menu = append(resp.Menu, menuItem{Page: string(p), Label: p.Label()})
		}
	}
	return resp
}
