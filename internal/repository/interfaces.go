// Package repository はデータ永続化のインターフェースと実装を提供する。
// 食材と掲示板はCSVファイル、セッションはプロセス内メモリに保持する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// FoodRepository は食材テーブルの永続化インターフェース。
type FoodRepository interface {
	// Load はテーブル全体を読み込む。ファイルが存在しない場合は空のテーブルを返す。
	Load(ctx context.Context) ([]model.FoodItem, error)
	// Save はテーブル全体でファイルを置き換える。
	Save(ctx context.Context, items []model.FoodItem) error
}

// BulletinRepository は掲示板テーブルの永続化インターフェース。
type BulletinRepository interface {
	// Load はテーブル全体を読み込む。ファイルが存在しない場合は空のテーブルを返す。
	Load(ctx context.Context) ([]model.BulletinPost, error)
	// Save はテーブル全体でファイルを置き換える。
	Save(ctx context.Context, posts []model.BulletinPost) error
}

// SessionRepository はセッションの保持インターフェース。
type SessionRepository interface {
	// Create はセッションを保存する。
	Create(ctx context.Context, session *model.AuthSession) error
	// FindByID は指定IDのセッションのコピーを取得する。期限切れまたは未登録の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.AuthSession, error)
	// Update は指定IDのセッションをロック下でfnに渡して更新し、更新後のコピーを返す。
	// 期限切れまたは未登録の場合はnilを返す。
	Update(ctx context.Context, id string, fn func(s *model.AuthSession)) (*model.AuthSession, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired はnow時点で期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
