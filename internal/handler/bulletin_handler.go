package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hitoshi/kitchenmanual/internal/bulletin"
	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// BulletinServiceInterface は掲示板ハンドラーが必要とするサービスインターフェース。
type BulletinServiceInterface interface {
	List(ctx context.Context, category string) ([]model.BulletinPost, error)
	Add(ctx context.Context, category, content string, now time.Time) (*model.BulletinPost, error)
}

// BulletinHandler は掲示板のHTTPハンドラー。
type BulletinHandler struct {
	service BulletinServiceInterface
	now     func() time.Time
}

// NewBulletinHandler はBulletinHandlerを生成する。
func NewBulletinHandler(service BulletinServiceInterface) *BulletinHandler {
	return &BulletinHandler{service: service, now: time.Now}
}

// addPostRequest は投稿リクエストのボディ。
type addPostRequest struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// bulletinListResponse は過去の投稿一覧のAPIレスポンス。
type bulletinListResponse struct {
	Category        string               `json:"category"`
	FilterOptions   []string             `json:"filter_options"`
	CategoryOptions []string             `json:"category_options"`
	Posts           []model.BulletinPost `json:"posts"`
	Message         string               `json:"message,omitempty"`
}

// addPostResponse は投稿完了のAPIレスポンス。
type addPostResponse struct {
	Message string             `json:"message"`
	Post    model.BulletinPost `json:"post"`
}

// ListPosts は過去の投稿を新しい順に返す。
// GET /api/bulletin?category=
func (h *BulletinHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = model.BulletinAllCategories
	}

	posts, err := h.service.List(r.Context(), category)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	resp := bulletinListResponse{
		Category:        category,
		FilterOptions:   bulletin.FilterOptions(),
		CategoryOptions: model.BulletinCategoryOptions(),
		Posts:           posts,
	}
	if len(posts) == 0 {
		resp.Posts = []model.BulletinPost{}
		resp.Message = fmt.Sprintf("【%s】の投稿は見つかりませんでした。", category)
		if category == model.BulletinAllCategories {
			resp.Message = "まだ投稿はありません。"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddPost は掲示板に投稿する。
// POST /api/bulletin
func (h *BulletinHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	var req addPostRequest
	if err := decodeJSON(r, &req, false); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	post, err := h.service.Add(r.Context(), req.Category, req.Content, h.now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addPostResponse{
		Message: "投稿されました。ご協力ありがとうございます！",
		Post:    *post,
	})
}
