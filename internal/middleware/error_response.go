package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// ErrorResponseBody はエラーレスポンスのJSON形式。model.APIErrorをそのまま返す。
type ErrorResponseBody = model.APIError

// errorCodeHeader はエラーコードを載せるレスポンスヘッダー。
const errorCodeHeader = "X-Error-Code"

// WriteErrorResponse はapiErrをstatusCodeで書き込む。
// ボディを読まないクライアントでも判別できるよう、コードはヘッダーにも載せる。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set(errorCodeHeader, apiErr.Code)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		slog.Warn("failed to write error response",
			slog.String("code", apiErr.Code),
			slog.String("error", err.Error()),
		)
	}
}

// WriteInternalServerError は500を書き込む。原因はログにのみ残す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}
