package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kitchenmanual/internal/guide"
	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// NavigationServiceInterface はページ遷移に必要なサービスインターフェース。
type NavigationServiceInterface interface {
	Navigate(ctx context.Context, sessionID, page string) (*model.AuthSession, error)
	SelectMapArea(ctx context.Context, sessionID, areaID string) (*model.AuthSession, error)
	BackToMap(ctx context.Context, sessionID string) (*model.AuthSession, error)
	SelectDish(ctx context.Context, sessionID, dishID string) (*model.AuthSession, error)
	BackToDishList(ctx context.Context, sessionID string) (*model.AuthSession, error)
}

// GuideServiceInterface は食器ガイドと厨房マップの表示内容を組み立てるインターフェース。
type GuideServiceInterface interface {
	DishGuide(selected string) guide.DishGuideView
	KitchenMap(mapView string) guide.MapView
}

// NavigationHandler はメニュー遷移と、食器ガイド・厨房マップのHTTPハンドラー。
type NavigationHandler struct {
	navigation NavigationServiceInterface
	guide      GuideServiceInterface
}

// NewNavigationHandler はNavigationHandlerを生成する。
func NewNavigationHandler(navigation NavigationServiceInterface, guideService GuideServiceInterface) *NavigationHandler {
	return &NavigationHandler{navigation: navigation, guide: guideService}
}

// navigateRequest はページ遷移リクエストのボディ。
type navigateRequest struct {
	Page string `json:"page"`
}

// dishGuideResponse は食器ガイドのAPIレスポンス。
type dishGuideResponse struct {
	Session sessionResponse     `json:"session"`
	View    guide.DishGuideView `json:"view"`
}

// kitchenMapResponse は厨房マップのAPIレスポンス。
type kitchenMapResponse struct {
	Session sessionResponse `json:"session"`
	View    guide.MapView   `json:"view"`
}

// Navigate はメニューのページ遷移を処理する。
// POST /api/navigate
func (h *NavigationHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	session, err := h.navigation.Navigate(r.Context(), middleware.SessionIDFromContext(r.Context()), req.Page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// DishGuide は食器ガイドの現在の表示内容を返す。
// GET /api/guide/dishes
func (h *NavigationHandler) DishGuide(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}
	h.writeDishGuide(w, session)
}

// SelectDish は食器の定位置表示に切り替える。
// POST /api/guide/dishes/{id}/select
func (h *NavigationHandler) SelectDish(w http.ResponseWriter, r *http.Request) {
	session, err := h.navigation.SelectDish(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.writeDishGuide(w, session)
}

// BackToDishList は食器一覧に戻る。
// POST /api/guide/dishes/back
func (h *NavigationHandler) BackToDishList(w http.ResponseWriter, r *http.Request) {
	session, err := h.navigation.BackToDishList(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.writeDishGuide(w, session)
}

// KitchenMap は厨房マップの現在の表示内容を返す。
// GET /api/guide/map
func (h *NavigationHandler) KitchenMap(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}
	h.writeKitchenMap(w, session)
}

// SelectMapArea はエリアの詳細表示に切り替える。
// POST /api/guide/map/areas/{id}/select
func (h *NavigationHandler) SelectMapArea(w http.ResponseWriter, r *http.Request) {
	session, err := h.navigation.SelectMapArea(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.writeKitchenMap(w, session)
}

// BackToMap は全体マップに戻る。
// POST /api/guide/map/back
func (h *NavigationHandler) BackToMap(w http.ResponseWriter, r *http.Request) {
	session, err := h.navigation.BackToMap(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.writeKitchenMap(w, session)
}

func (h *NavigationHandler) writeDishGuide(w http.ResponseWriter, session *model.AuthSession) {
	writeJSON(w, http.StatusOK, dishGuideResponse{
		Session: toSessionResponse(session),
		View:    h.guide.DishGuide(session.SelectedDish),
	})
}

func (h *NavigationHandler) writeKitchenMap(w http.ResponseWriter, session *model.AuthSession) {
	writeJSON(w, http.StatusOK, kitchenMapResponse{
		Session: toSessionResponse(session),
		View:    h.guide.KitchenMap(session.MapView),
	})
}
