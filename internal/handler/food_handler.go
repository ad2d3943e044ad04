package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kitchenmanual/internal/food"
	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// FoodServiceInterface は食材ハンドラーが必要とするサービスインターフェース。
type FoodServiceInterface interface {
	// List はフェアで絞り込み、表示順に並べた一覧を返す。
	List(ctx context.Context, filter string) (*food.ListResult, error)
	// Table は保存順のテーブル全体を返す。
	Table(ctx context.Context) ([]model.FoodItem, error)
	// Add は食材を末尾に追加し、更新後のテーブルを返す。
	Add(ctx context.Context, name string, label model.DateLabel, category string) ([]model.FoodItem, error)
	// Delete は指定番号の行を削除し、更新後のテーブルを返す。
	Delete(ctx context.Context, position int, expected *model.FoodItem) ([]model.FoodItem, error)
}

// FoodHandler は食材の日付管理と登録データ削除のHTTPハンドラー。
type FoodHandler struct {
	service FoodServiceInterface
}

// NewFoodHandler はFoodHandlerを生成する。
func NewFoodHandler(service FoodServiceInterface) *FoodHandler {
	return &FoodHandler{service: service}
}

// addFoodRequest は食材登録リクエストのボディ。
type addFoodRequest struct {
	Name      string `json:"name"`
	DateLabel string `json:"date_label"`
	Category  string `json:"category"`
}

// deleteFoodRequest は食材削除リクエストのボディ。
// Expectedを指定した場合、その番号の行が一致するときだけ削除する。
type deleteFoodRequest struct {
	Expected *model.FoodItem `json:"expected,omitempty"`
}

// foodListResponse は登録済みリストのAPIレスポンス。
type foodListResponse struct {
	Filter          string            `json:"filter"`
	FilterOptions   []string          `json:"filter_options"`
	Entries         []model.FoodEntry `json:"entries"`
	DateOptions     []string          `json:"date_options"`
	CategoryOptions []string          `json:"category_options"`
	CanEdit         bool              `json:"can_edit"`
	Message         string            `json:"message,omitempty"`
}

// foodTableResponse は保存順テーブルのAPIレスポンス。
type foodTableResponse struct {
	Message string            `json:"message,omitempty"`
	Rows    []model.FoodEntry `json:"rows"`
}

// ListFoods は登録済みリストを返す。
// GET /api/foods?filter=
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	canEdit := false
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		canEdit = s.IsEditor
	}

	dateOptions := make([]string, 0, len(model.DateLabelOptions()))
	for _, l := range model.DateLabelOptions() {
		dateOptions = append(dateOptions, string(l))
	}

	resp := foodListResponse{
		Filter:          result.Filter,
		FilterOptions:   result.FilterOptions,
		Entries:         nonNilEntries(result.Entries),
		DateOptions:     dateOptions,
		CategoryOptions: model.FoodCategoryOptions(),
		CanEdit:         canEdit,
	}
	if len(resp.Entries) == 0 {
		resp.Message = "該当する食材が登録されていません。"
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddFood は食材を登録する。
// POST /api/foods
func (h *FoodHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	var req addFoodRequest
	if err := decodeJSON(r, &req, false); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	table, err := h.service.Add(r.Context(), req.Name, model.DateLabel(req.DateLabel), req.Category)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	added := table[len(table)-1]
	writeJSON(w, http.StatusCreated, foodTableResponse{
		Message: fmt.Sprintf("%s（%s）がリストに追加されました！", added.Name, added.Category),
		Rows:    toEntries(table),
	})
}

// FoodTable は削除用に保存順のテーブルを返す。
// GET /api/foods/table
func (h *FoodHandler) FoodTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Table(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	resp := foodTableResponse{Rows: toEntries(table)}
	if len(table) == 0 {
		resp.Message = "削除できる項目はありません。"
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteFood は指定番号の食材を削除する。
// DELETE /api/foods/{position}
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("削除する項目の番号"))
		return
	}

	var req deleteFoodRequest
	if err := decodeJSON(r, &req, true); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	table, err := h.service.Delete(r.Context(), position, req.Expected)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, foodTableResponse{
		Message: "項目が削除されました。",
		Rows:    toEntries(table),
	})
}

// toEntries は保存順のテーブルに番号を付ける。
func toEntries(table []model.FoodItem) []model.FoodEntry {
	entries := make([]model.FoodEntry, len(table))
	for i, item := range table {
		entries[i] = model.FoodEntry{Position: i, FoodItem: item}
	}
	return entries
}

func nonNilEntries(entries []model.FoodEntry) []model.FoodEntry {
	if entries == nil {
		return []model.FoodEntry{}
	}
	return entries
}
