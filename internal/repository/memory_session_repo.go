package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// MemorySessionRepo はプロセス内メモリを使用したセッションリポジトリ。
// プロセス再起動でセッションはすべて失われる。
type MemorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.AuthSession
	now      func() time.Time
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.AuthSession),
		now:      time.Now,
	}
}

// Create はセッションを保存する。
func (r *MemorySessionRepo) Create(ctx context.Context, session *model.AuthSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("failed to create session: empty session id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("failed to create session: duplicate id")
	}
	s := *session
	r.sessions[session.ID] = &s
	return nil
}

// FindByID は指定IDのセッションのコピーを取得する。期限切れの場合はnilを返す。
func (r *MemorySessionRepo) FindByID(ctx context.Context, id string) (*model.AuthSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(id)
	if s == nil {
		return nil, nil
	}
	c := *s
	return &c, nil
}

// Update は指定IDのセッションをロック下で更新し、更新後のコピーを返す。
func (r *MemorySessionRepo) Update(ctx context.Context, id string, fn func(s *model.AuthSession)) (*model.AuthSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(id)
	if s == nil {
		return nil, nil
	}
	fn(s)
	// IDは書き換えさせない
	s.ID = id
	c := *s
	return &c, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *MemorySessionRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// DeleteExpired はnow時点で期限切れのセッションを削除する。
func (r *MemorySessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// Count は保持中のセッション数を返す。期限切れで未削除のものも含む。
func (r *MemorySessionRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// lookup は有効期限内のセッションを返す。呼び出し側でロックを保持すること。
func (r *MemorySessionRepo) lookup(id string) *model.AuthSession {
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	if !r.now().Before(s.ExpiresAt) {
		return nil
	}
	return s
}

// compile-time interface check
var _ SessionRepository = (*MemorySessionRepo)(nil)
