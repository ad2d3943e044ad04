package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kitchenmanual/internal/metrics"
	"github.com/hitoshi/kitchenmanual/internal/model"
	"github.com/hitoshi/kitchenmanual/internal/repository"
)

// DefaultPendingSessionTTL は閲覧用パスワード入力前のセッションの有効期間。
const DefaultPendingSessionTTL = 15 * time.Minute

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge     int           // 認証済みセッションの有効期間（秒）
	PendingSessionTTL time.Duration // 未認証セッションの有効期間。0はDefaultPendingSessionTTL
}

// sessionLifetime は認証済みセッションの有効期間を返す。
func (c ServiceConfig) sessionLifetime() time.Duration {
	return time.Duration(c.SessionMaxAge) * time.Second
}

// pendingLifetime は未認証セッションの有効期間を返す。sessionLifetimeを超えない。
func (c ServiceConfig) pendingLifetime() time.Duration {
	ttl := c.PendingSessionTTL
	if ttl <= 0 {
		ttl = DefaultPendingSessionTTL
	}
	return min(ttl, c.sessionLifetime())
}

// Service はセッションの発行とパスワード認証を提供する。
type Service struct {
	gate        *Gate
	sessionRepo repository.SessionRepository
	metrics     metrics.MetricsCollector
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	gate *Gate,
	sessionRepo repository.SessionRepository,
	collector metrics.MetricsCollector,
	config ServiceConfig,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		gate:        gate,
		sessionRepo: sessionRepo,
		metrics:     collector,
		config:      config,
		now:         time.Now,
	}
}

// StartSession は未認証の新しいセッションを発行する。
// 初期ページはトップ、厨房マップは全体図を表示する。
// 有効期間は短く、閲覧用パスワードが通った時点でSessionMaxAgeまで延長する。
func (s *Service) StartSession(ctx context.Context) (*model.AuthSession, error) {
	now := s.now()
	session := &model.AuthSession{
		ID:        uuid.New().String(),
		Page:      model.PageHome,
		MapView:   model.MapOverview,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.pendingLifetime()),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session started",
		slog.String("session_id", session.ID),
	)
	return session, nil
}

// FindSession は指定IDの有効なセッションを返す。見つからない場合はnilを返す。
func (s *Service) FindSession(ctx context.Context, sessionID string) (*model.AuthSession, error) {
	return s.sessionRepo.FindByID(ctx, sessionID)
}

// SubmitViewerPassword は閲覧用パスワードを検証し、更新後のセッションを返す。
func (s *Service) SubmitViewerPassword(ctx context.Context, sessionID, password string) (*model.AuthSession, error) {
	var checkErr error
	session, err := s.sessionRepo.Update(ctx, sessionID, func(sess *model.AuthSession) {
		checkErr = s.gate.CheckViewer(sess, password)
		if checkErr == nil {
			sess.ExpiresAt = s.now().Add(s.config.sessionLifetime())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthenticatedError()
	}

	s.metrics.RecordAuthAttempt("viewer", checkErr == nil)
	if checkErr != nil {
		slog.Warn("viewer password mismatch", slog.String("session_id", sessionID))
		return nil, checkErr
	}

	slog.Info("viewer authenticated", slog.String("session_id", sessionID))
	return session, nil
}

// SubmitEditorPassword は編集用パスワードを検証し、更新後のセッションを返す。
func (s *Service) SubmitEditorPassword(ctx context.Context, sessionID, password string) (*model.AuthSession, error) {
	var checkErr error
	session, err := s.sessionRepo.Update(ctx, sessionID, func(sess *model.AuthSession) {
		checkErr = s.gate.CheckEditor(sess, password)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthenticatedError()
	}

	if checkErr != nil {
		if session.Authenticated {
			s.metrics.RecordAuthAttempt("editor", false)
			slog.Warn("editor password mismatch", slog.String("session_id", sessionID))
		}
		return nil, checkErr
	}

	s.metrics.RecordAuthAttempt("editor", true)
	slog.Info("editor authenticated", slog.String("session_id", sessionID))
	return session, nil
}

// Logout は編集権限を解除し、更新後のセッションを返す。
func (s *Service) Logout(ctx context.Context, sessionID string) (*model.AuthSession, error) {
	session, err := s.sessionRepo.Update(ctx, sessionID, s.gate.Logout)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthenticatedError()
	}
	return session, nil
}
