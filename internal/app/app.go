// Package app はコマンドの解析と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hitoshi/kitchenmanual/internal/auth"
	"github.com/hitoshi/kitchenmanual/internal/bulletin"
	"github.com/hitoshi/kitchenmanual/internal/config"
	"github.com/hitoshi/kitchenmanual/internal/dispatch"
	"github.com/hitoshi/kitchenmanual/internal/food"
	"github.com/hitoshi/kitchenmanual/internal/guide"
	"github.com/hitoshi/kitchenmanual/internal/handler"
	"github.com/hitoshi/kitchenmanual/internal/logger"
	"github.com/hitoshi/kitchenmanual/internal/metrics"
	"github.com/hitoshi/kitchenmanual/internal/middleware"
	"github.com/hitoshi/kitchenmanual/internal/model"
	"github.com/hitoshi/kitchenmanual/internal/repository"
	"github.com/hitoshi/kitchenmanual/internal/security"
	"github.com/hitoshi/kitchenmanual/internal/worker/cleanup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再セットアップ
	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandVerify:
		return runVerify(context.Background(), cfg, w)
	default:
		return runServe(cfg)
	}
}

// application はワイヤリング済みのHTTPハンドラーとバックグラウンド処理を保持する。
type application struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	cleanupJob  *cleanup.CleanupJob
}

// close はバックグラウンドのゴルーチンを停止する。
func (a *application) close() {
	a.rateLimiter.Stop()
}

// newApplication は設定から全依存関係をワイヤリングする。
// regにはアプリケーションのメトリクスを登録する。
func newApplication(cfg *config.Config, reg *prometheus.Registry) (*application, error) {
	// 1. メトリクス
	collector := metrics.NewCollector(reg)

	// 2. リポジトリの初期化
	foodRepo := repository.NewCSVFoodRepo(cfg.FoodDataFile)
	bulletinRepo := repository.NewCSVBulletinRepo(cfg.BulletinDataFile)
	sessionRepo := repository.NewMemorySessionRepo()

	// 3. ガイドカタログの読み込み
	catalog, err := guide.Load(cfg.GuideCatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load guide catalog: %w", err)
	}

	// 4. ドメインサービスの初期化
	authService := auth.NewService(
		auth.NewGate(cfg.ViewerPassword, cfg.EditorPassword),
		sessionRepo,
		collector,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)
	foodService := food.NewService(foodRepo, collector, slog.Default())
	bulletinService := bulletin.NewService(bulletinRepo, security.NewContentSanitizer(), collector, slog.Default())
	navigationService := dispatch.NewService(dispatch.NewDispatcher(catalog), sessionRepo)
	guideService := guide.NewService(catalog, guide.NewAssetResolver(cfg.AssetDir))

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitAuth),
		collector,
	)

	deps := &handler.RouterDeps{
		Sessions: authService,
		SessionConfig: middleware.SessionConfig{
			MaxAge:       cfg.SessionMaxAge,
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		Metrics:           collector,

		HealthChecker:  dataDirChecker(cfg.FoodDataFile, cfg.BulletinDataFile),
		MetricsHandler: metrics.Handler(reg),

		AuthService:       authService,
		FoodService:       foodService,
		BulletinService:   bulletinService,
		NavigationService: navigationService,
		GuideService:      guideService,
	}

	return &application{
		handler:     handler.NewRouter(deps),
		rateLimiter: rateLimiter,
		cleanupJob:  cleanup.NewCleanupJob(sessionRepo, slog.Default()),
	}, nil
}

// newRegistry はランタイムとプロセスのメトリクスを登録したレジストリを返す。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーとセッションクリーンアップを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	a, err := newApplication(cfg, newRegistry())
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 期限切れセッションを定期的に削除する
	go a.cleanupJob.Start(ctx, cfg.SessionCleanupInterval)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
			slog.String("food_data_file", cfg.FoodDataFile),
			slog.String("bulletin_data_file", cfg.BulletinDataFile),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runVerify は食材と掲示板のファイルを読み込み、件数と問題のある行をwに出力する。
// 一覧表示できない日付ラベルが含まれる場合はエラーを返す。
func runVerify(ctx context.Context, cfg *config.Config, w io.Writer) error {
	items, err := repository.NewCSVFoodRepo(cfg.FoodDataFile).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load food data: %w", err)
	}
	posts, err := repository.NewCSVBulletinRepo(cfg.BulletinDataFile).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bulletin data: %w", err)
	}

	fmt.Fprintf(w, "%s: %d rows\n", cfg.FoodDataFile, len(items))
	fmt.Fprintf(w, "%s: %d rows\n", cfg.BulletinDataFile, len(posts))

	var invalid int
	for i, item := range items {
		if _, ok := food.RankOf(item.DateLabel); !ok {
			invalid++
			fmt.Fprintf(w, "  row %d: unknown date label %q (%s)\n", i, item.DateLabel, item.Name)
		}
	}
	for i, post := range posts {
		if !model.IsBulletinCategory(post.Category) {
			fmt.Fprintf(w, "  post %d: unlisted category %q\n", i, post.Category)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d food rows have unknown date labels", invalid)
	}

	slog.Info("data files verified",
		slog.Int("food_rows", len(items)),
		slog.Int("bulletin_rows", len(posts)),
	)
	return nil
}

// dataDirChecker はデータファイルを置くディレクトリが存在するかを確認するヘルスチェックを返す。
func dataDirChecker(paths ...string) handler.HealthChecker {
	return handler.HealthCheckFunc(func(ctx context.Context) error {
		for _, p := range paths {
			dir := filepath.Dir(p)
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("data directory %s: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("data directory %s is not a directory", dir)
			}
		}
		return nil
	})
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
