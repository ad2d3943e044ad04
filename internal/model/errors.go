// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string `json:"code"`     // エラーコード
	Message  string `json:"message"`  // エラーメッセージ
	Category string `json:"category"` // カテゴリ: auth, validation, not_found, index, system
	Action   string `json:"action"`   // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeInvalidDateLabel        = "INVALID_DATE_LABEL"
	ErrCodeUnknownDateLabel        = "UNKNOWN_DATE_LABEL"
	ErrCodeInvalidBulletinCategory = "INVALID_BULLETIN_CATEGORY"
	ErrCodeUnknownPage             = "UNKNOWN_PAGE"
	ErrCodeAuthFailed              = "AUTH_FAILED"
	ErrCodeUnauthenticated         = "UNAUTHENTICATED"
	ErrCodeEditorRequired          = "EDITOR_REQUIRED"
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeAssetNotFound           = "ASSET_NOT_FOUND"
	ErrCodeFoodPositionOutOfRange  = "FOOD_POSITION_OUT_OF_RANGE"
	ErrCodeFoodPositionStale       = "FOOD_POSITION_STALE"
	ErrCodeCSRFInvalid             = "CSRF_TOKEN_INVALID"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodeInternal                = "INTERNAL_ERROR"
)

// エラーカテゴリ
const (
	CategoryAuth       = "auth"
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryIndex      = "index"
	CategorySystem     = "system"
)

// NewValidationError は必須項目が空の場合のエラーを生成する。
func NewValidationError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("%sを入力してください。", field),
		Category: CategoryValidation,
		Action:   "入力内容を確認してから、もう一度送信してください。",
	}
}

// NewInvalidDateLabelError は登録時に日付ラベルが選択肢にない場合のエラーを生成する。
func NewInvalidDateLabelError(label string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDateLabel,
		Message:  fmt.Sprintf("無効な日付です: %s", label),
		Category: CategoryValidation,
		Action:   "日付は 日付なし、当日、翌日、2日後〜6日後 のいずれかを選択してください。",
	}
}

// NewUnknownDateLabelError は保存済みデータに並び順が定義されていない日付ラベルが含まれる場合のエラーを生成する。
func NewUnknownDateLabelError(label string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownDateLabel,
		Message:  fmt.Sprintf("並び順が定義されていない日付が登録されています: %s", label),
		Category: CategorySystem,
		Action:   "登録データ削除から該当の食材を削除し、正しい日付で登録し直してください。",
	}
}

// NewInvalidBulletinCategoryError は掲示板のカテゴリーが選択肢にない場合のエラーを生成する。
func NewInvalidBulletinCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBulletinCategory,
		Message:  fmt.Sprintf("無効なカテゴリーです: %s", category),
		Category: CategoryValidation,
		Action:   "カテゴリーは一覧から選択してください。",
	}
}

// NewUnknownPageError は存在しないページへの遷移エラーを生成する。
func NewUnknownPageError(page string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownPage,
		Message:  fmt.Sprintf("存在しないページです: %s", page),
		Category: CategoryValidation,
		Action:   "メニューからページを選択してください。",
	}
}

// NewAuthFailedError はパスワード不一致エラーを生成する。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "パスワードが違います。",
		Category: CategoryAuth,
		Action:   "従業員にご確認ください。",
	}
}

// NewUnauthenticatedError はアクセス認証前の操作に対するエラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "アクセス認証が必要です。",
		Category: CategoryAuth,
		Action:   "店舗アクセスパスワードを入力してください。",
	}
}

// NewEditorRequiredError は編集権限が必要な操作に対するエラーを生成する。
func NewEditorRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeEditorRequired,
		Message:  "この機能は編集権限を持つユーザー（店長など）のみ利用できます。",
		Category: CategoryAuth,
		Action:   "編集者ログインからログインしてください。",
	}
}

// NewNotFoundError は指定IDの項目が見つからない場合のエラーを生成する。
func NewNotFoundError(kind, id string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定された%sが見つかりません: %s", kind, id),
		Category: CategoryNotFound,
		Action:   "一覧から選択し直してください。",
	}
}

// NewAssetNotFoundError は画像ファイルが見つからない場合のエラーを生成する。
// ページ全体ではなく画像ごとにインラインで表示される。
func NewAssetNotFoundError(path string) *APIError {
	return &APIError{
		Code:     ErrCodeAssetNotFound,
		Message:  fmt.Sprintf("画像ファイルが見つかりません: %s", path),
		Category: CategoryNotFound,
		Action:   "管理者に画像ファイルの配置を依頼してください。",
	}
}

// NewFoodPositionOutOfRangeError は削除対象の番号が範囲外の場合のエラーを生成する。
func NewFoodPositionOutOfRangeError(position, size int) *APIError {
	return &APIError{
		Code:     ErrCodeFoodPositionOutOfRange,
		Message:  fmt.Sprintf("削除対象の番号が存在しません: %d（登録件数 %d件）", position, size),
		Category: CategoryIndex,
		Action:   "一覧を更新してから、もう一度削除してください。",
	}
}

// NewFoodPositionStaleError は削除対象の番号の内容が画面表示時から変わっている場合のエラーを生成する。
func NewFoodPositionStaleError(position int) *APIError {
	return &APIError{
		Code:     ErrCodeFoodPositionStale,
		Message:  fmt.Sprintf("番号 %d の内容が他の操作により変更されています。", position),
		Category: CategoryIndex,
		Action:   "一覧を更新してから、もう一度削除してください。",
	}
}

// NewCSRFInvalidError はCSRFトークンの検証に失敗した場合のエラーを生成する。
func NewCSRFInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFInvalid,
		Message:  "リクエストの検証に失敗しました。",
		Category: CategoryAuth,
		Action:   "ページを再読み込みしてから、もう一度操作してください。",
	}
}

// NewRateLimitedError はリクエスト回数の上限を超えた場合のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "短時間にリクエストが集中しています。",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}
