package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// 掲示板CSVの列名
const (
	bulletinColumnTimestamp = "日付"
	bulletinColumnCategory  = "カテゴリ"
	bulletinColumnContent   = "内容"
)

// CSVBulletinRepo はCSVファイルを使用した掲示板リポジトリ。
// キャッシュは持たず、Loadのたびにファイルを読み直す。
type CSVBulletinRepo struct {
	path string
}

// NewCSVBulletinRepo はCSVBulletinRepoを生成する。
func NewCSVBulletinRepo(path string) *CSVBulletinRepo {
	return &CSVBulletinRepo{path: path}
}

// Path は保存先のファイルパスを返す。
func (r *CSVBulletinRepo) Path() string {
	return r.path
}

// Load は掲示板テーブルを読み込む。
func (r *CSVBulletinRepo) Load(ctx context.Context) ([]model.BulletinPost, error) {
	table, exists, err := readCSVFile(r.path)
	if err != nil {
		return nil, err
	}
	if !exists || len(table.header) == 0 {
		return []model.BulletinPost{}, nil
	}

	tsCol := table.column(bulletinColumnTimestamp)
	categoryCol := table.column(bulletinColumnCategory)
	contentCol := table.column(bulletinColumnContent)
	if tsCol < 0 || categoryCol < 0 || contentCol < 0 {
		return nil, fmt.Errorf("failed to load %s: header must contain %q, %q and %q",
			r.path, bulletinColumnTimestamp, bulletinColumnCategory, bulletinColumnContent)
	}

	posts := make([]model.BulletinPost, 0, len(table.rows))
	for _, row := range table.rows {
		posts = append(posts, model.BulletinPost{
			Timestamp: field(row, tsCol),
			Category:  field(row, categoryCol),
			Content:   field(row, contentCol),
		})
	}
	return posts, nil
}

// Save は掲示板テーブル全体でファイルを置き換える。
func (r *CSVBulletinRepo) Save(ctx context.Context, posts []model.BulletinPost) error {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{p.Timestamp, p.Category, p.Content})
	}
	header := []string{bulletinColumnTimestamp, bulletinColumnCategory, bulletinColumnContent}
	if err := writeCSVFileAtomic(r.path, header, rows); err != nil {
		return fmt.Errorf("failed to save bulletin posts: %w", err)
	}
	return nil
}

// compile-time interface check
var _ BulletinRepository = (*CSVBulletinRepo)(nil)
