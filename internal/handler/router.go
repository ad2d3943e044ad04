package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kitchenmanual/internal/metrics"
	"github.com/hitoshi/kitchenmanual/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Sessions          middleware.SessionProvider
	SessionConfig     middleware.SessionConfig
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// ドメイン
	AuthService       AuthServiceInterface
	FoodService       FoodServiceInterface
	BulletinService   BulletinServiceInterface
	NavigationService NavigationServiceInterface
	GuideService      GuideServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Session → Logging → CSRF → RateLimit(General)
//
// /health、/metrics、/api/csrf-token はセッションを発行しない。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.CORSAllowedOrigin != "" {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	}
	r.Use(middleware.NewMetricsMiddleware(collector))

	authHandler := NewAuthHandler(deps.AuthService)
	foodHandler := NewFoodHandler(deps.FoodService)
	bulletinHandler := NewBulletinHandler(deps.BulletinService)
	navHandler := NewNavigationHandler(deps.NavigationService, deps.GuideService)

	// --- セッション不要のルート ---
	r.Method(http.MethodGet, "/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- セッションが必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.Sessions, deps.SessionConfig))
		r.Use(middleware.NewLoggingMiddleware(logger))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/session", authHandler.Session)

		// パスワード認証（認証専用レート制限を追加）
		r.Route("/api/auth", func(r chi.Router) {
			r.Use(deps.RateLimiter.AuthMiddleware())
			r.Post("/viewer", authHandler.ViewerLogin)
			r.Post("/editor", authHandler.EditorLogin)
			r.With(middleware.RequireAuthenticated()).Post("/logout", authHandler.Logout)
		})

		// --- 閲覧認証済みのルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated())

			r.Post("/api/navigate", navHandler.Navigate)

			// 食材の日付
			r.Get("/api/foods", foodHandler.ListFoods)
			r.With(middleware.RequireEditor()).Post("/api/foods", foodHandler.AddFood)

			// 掲示板
			r.Get("/api/bulletin", bulletinHandler.ListPosts)
			r.Post("/api/bulletin", bulletinHandler.AddPost)

			// 食器ガイド
			r.Route("/api/guide/dishes", func(r chi.Router) {
				r.Get("/", navHandler.DishGuide)
				r.Post("/back", navHandler.BackToDishList)
				r.Post("/{id}/select", navHandler.SelectDish)
			})

			// 厨房マップ
			r.Route("/api/guide/map", func(r chi.Router) {
				r.Get("/", navHandler.KitchenMap)
				r.Post("/back", navHandler.BackToMap)
				r.Post("/areas/{id}/select", navHandler.SelectMapArea)
			})

			// 登録データ削除（編集者のみ）
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor())
				r.Get("/api/foods/table", foodHandler.FoodTable)
				r.Delete("/api/foods/{position}", foodHandler.DeleteFood)
			})
		})
	})

	return r
}
