// Package bulletin は安全に関する気づきを共有する掲示板機能を提供する。
// 投稿は追記のみで、更新・削除の操作は持たない。
package bulletin

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/kitchenmanual/internal/metrics"
	"github.com/hitoshi/kitchenmanual/internal/model"
	"github.com/hitoshi/kitchenmanual/internal/repository"
	"github.com/hitoshi/kitchenmanual/internal/security"
)

// Service は掲示板の投稿・一覧のサービス。
// 一覧のたびにファイルを読み直すため、外部で追記された投稿も再起動なしで表示される。
type Service struct {
	repo      repository.BulletinRepository
	sanitizer security.ContentSanitizerService
	metrics   metrics.MetricsCollector
	logger    *slog.Logger

	mu sync.Mutex
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.BulletinRepository,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   collector,
		logger:    logger,
	}
}

// Add は投稿をnowの日時で追記保存し、保存した投稿を返す。
// 内容が空（タグ除去後を含む）の場合とカテゴリーが選択肢にない場合は保存せずにエラーを返す。
func (s *Service) Add(ctx context.Context, category, content string, now time.Time) (*model.BulletinPost, error) {
	if s.sanitizer != nil {
		content = s.sanitizer.Sanitize(content)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, s.reject(model.NewValidationError("内容"))
	}
	if !model.IsBulletinCategory(category) {
		return nil, s.reject(model.NewInvalidBulletinCategoryError(category))
	}

	post := model.BulletinPost{
		Timestamp: now.Format(model.BulletinTimestampLayout),
		Category:  category,
		Content:   content,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// キャッシュではなくファイルの最新内容に追記する
	posts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, append(posts, post)); err != nil {
		return nil, err
	}

	s.metrics.RecordBulletinPosted(category)
	s.logger.Info("bulletin post added",
		slog.String("category", category),
		slog.String("timestamp", post.Timestamp),
		slog.Int("rows", len(posts)+1),
	)
	return &post, nil
}

// List はcategoryで絞り込んだ投稿を新しい順に返す。
// categoryが空または全てのカテゴリーの場合は全件を返す。
func (s *Service) List(ctx context.Context, category string) ([]model.BulletinPost, error) {
	posts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ListFiltered(posts, category), nil
}

// ListFiltered はcategoryに一致する投稿を日時の降順で返す。
// 日時は固定幅の書式のため文字列比較で時系列順になる。同じ日時の投稿は元の順序を保つ。
func ListFiltered(posts []model.BulletinPost, category string) []model.BulletinPost {
	all := category == "" || category == model.BulletinAllCategories

	filtered := make([]model.BulletinPost, 0, len(posts))
	for _, p := range posts {
		if all || p.Category == category {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp > filtered[j].Timestamp
	})
	return filtered
}

// FilterOptions は一覧の絞り込み選択肢を返す。先頭は全てのカテゴリー。
func FilterOptions() []string {
	return append([]string{model.BulletinAllCategories}, model.BulletinCategoryOptions()...)
}

func (s *Service) reject(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		s.metrics.RecordRejected("bulletin_add", apiErr.Code)
		s.logger.Warn("bulletin post rejected", slog.String("code", apiErr.Code))
	}
	return err
}
