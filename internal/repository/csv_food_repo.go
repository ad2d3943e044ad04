package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// 食材CSVの列名
const (
	foodColumnName     = "食材名"
	foodColumnDate     = "日付"
	foodColumnCategory = "カテゴリ"
)

// CSVFoodRepo はCSVファイルを使用した食材リポジトリ。
type CSVFoodRepo struct {
	path string
}

// NewCSVFoodRepo はCSVFoodRepoを生成する。
func NewCSVFoodRepo(path string) *CSVFoodRepo {
	return &CSVFoodRepo{path: path}
}

// Path は保存先のファイルパスを返す。
func (r *CSVFoodRepo) Path() string {
	return r.path
}

// Load は食材テーブルを読み込む。
// カテゴリ列がない古いファイルは全行を年中として扱う。
func (r *CSVFoodRepo) Load(ctx context.Context) ([]model.FoodItem, error) {
	table, exists, err := readCSVFile(r.path)
	if err != nil {
		return nil, err
	}
	if !exists || len(table.header) == 0 {
		return []model.FoodItem{}, nil
	}

	nameCol := table.column(foodColumnName)
	dateCol := table.column(foodColumnDate)
	categoryCol := table.column(foodColumnCategory)
	if nameCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("failed to load %s: header must contain %q and %q", r.path, foodColumnName, foodColumnDate)
	}

	items := make([]model.FoodItem, 0, len(table.rows))
	for _, row := range table.rows {
		category := model.CategoryYearRound
		if categoryCol >= 0 {
			category = field(row, categoryCol)
		}
		items = append(items, model.FoodItem{
			Name:      field(row, nameCol),
			DateLabel: model.DateLabel(field(row, dateCol)),
			Category:  category,
		})
	}
	return items, nil
}

// Save は食材テーブル全体でファイルを置き換える。
func (r *CSVFoodRepo) Save(ctx context.Context, items []model.FoodItem) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Name, string(item.DateLabel), item.Category})
	}
	header := []string{foodColumnName, foodColumnDate, foodColumnCategory}
	if err := writeCSVFileAtomic(r.path, header, rows); err != nil {
		return fmt.Errorf("failed to save food items: %w", err)
	}
	return nil
}

// compile-time interface check
var _ FoodRepository = (*CSVFoodRepo)(nil)
