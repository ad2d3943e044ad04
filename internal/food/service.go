// Package food は食材の日付管理機能を提供する。
//
// 食材テーブルは位置で行を識別するフラットなテーブルで、
// 変更のたびにファイル全体を読み直して書き戻す。
package food

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/kitchenmanual/internal/metrics"
	"github.com/hitoshi/kitchenmanual/internal/model"
	"github.com/hitoshi/kitchenmanual/internal/repository"
)

// Service は食材テーブルの登録・一覧・削除のサービス。
type Service struct {
	repo    repository.FoodRepository
	metrics metrics.MetricsCollector
	logger  *slog.Logger

	// 同一プロセス内の読み込み〜書き戻しを直列化する。
	// 別プロセスからの同時更新は防げない。
	mu sync.Mutex
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.FoodRepository, collector metrics.MetricsCollector, logger *slog.Logger) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		metrics: collector,
		logger:  logger,
	}
}

// ListResult はListの戻り値。
type ListResult struct {
	Filter        string
	FilterOptions []string
	Entries       []model.FoodEntry
}

// Table は保存済みの食材テーブルを位置順のまま返す。削除画面で使用する。
func (s *Service) Table(ctx context.Context) ([]model.FoodItem, error) {
	return s.repo.Load(ctx)
}

// List はfilterで絞り込み、表示順にソートした食材一覧を返す。
// filterが空の場合は全て表示として扱う。
func (s *Service) List(ctx context.Context, filter string) (*ListResult, error) {
	if filter == "" {
		filter = model.FilterShowAll
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := SortForDisplay(ListFiltered(items, filter))
	if err != nil {
		s.logger.Error("food table contains unsortable date label",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return &ListResult{
		Filter:        filter,
		FilterOptions: FilterOptions(items),
		Entries:       entries,
	}, nil
}

// Add は食材をテーブル末尾に追加して保存し、更新後のテーブルを返す。
// 名前が空の場合と日付ラベルが選択肢にない場合は保存せずにエラーを返す。
// カテゴリが空の場合は年中として登録する。
func (s *Service) Add(ctx context.Context, name string, label model.DateLabel, category string) ([]model.FoodItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.reject("food_add", model.NewValidationError("食材の名前"))
	}
	if !label.Valid() {
		return nil, s.reject("food_add", model.NewInvalidDateLabelError(string(label)))
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = model.CategoryYearRound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	item := model.FoodItem{Name: name, DateLabel: label, Category: category}
	updated := append(items, item)

	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, err
	}

	s.metrics.RecordFoodAdded(category)
	s.logger.Info("food item added",
		slog.String("name", name),
		slog.String("date_label", string(label)),
		slog.String("category", category),
		slog.Int("rows", len(updated)),
	)
	return updated, nil
}

// Delete は指定位置の行を削除して保存し、詰め直した後のテーブルを返す。
// expectedが指定された場合、現在その位置にある行と一致しなければ保存せずにエラーを返す。
func (s *Service) Delete(ctx context.Context, position int, expected *model.FoodItem) ([]model.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if position < 0 || position >= len(items) {
		return nil, s.reject("food_delete", model.NewFoodPositionOutOfRangeError(position, len(items)))
	}
	if expected != nil && items[position] != *expected {
		return nil, s.reject("food_delete", model.NewFoodPositionStaleError(position))
	}

	removed := items[position]
	updated := make([]model.FoodItem, 0, len(items)-1)
	updated = append(updated, items[:position]...)
	updated = append(updated, items[position+1:]...)

	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, err
	}

	s.metrics.RecordFoodDeleted()
	s.logger.Info("food item deleted",
		slog.Int("position", position),
		slog.String("name", removed.Name),
		slog.Int("rows", len(updated)),
	)
	return updated, nil
}

// reject は拒否した操作を記録してエラーをそのまま返す。
func (s *Service) reject(operation string, err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		s.metrics.RecordRejected(operation, apiErr.Code)
		s.logger.Warn("food operation rejected",
			slog.String("operation", operation),
			slog.String("code", apiErr.Code),
		)
	}
	return err
}
