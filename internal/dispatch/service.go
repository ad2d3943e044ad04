package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/kitchenmanual/internal/model"
	"github.com/hitoshi/kitchenmanual/internal/repository"
)

// Service はセッションストア上でDispatcherの遷移を適用する。
type Service struct {
	dispatcher  *Dispatcher
	sessionRepo repository.SessionRepository
}

// NewService はServiceを生成する。
func NewService(dispatcher *Dispatcher, sessionRepo repository.SessionRepository) *Service {
	return &Service{dispatcher: dispatcher, sessionRepo: sessionRepo}
}

// Navigate は指定ページへ遷移し、更新後のセッションを返す。
func (s *Service) Navigate(ctx context.Context, sessionID, page string) (*model.AuthSession, error) {
	return s.apply(ctx, sessionID, "navigate", func(sess *model.AuthSession) error {
		return s.dispatcher.Navigate(sess, page)
	})
}

// SelectMapArea は厨房マップのエリアを選択する。
func (s *Service) SelectMapArea(ctx context.Context, sessionID, areaID string) (*model.AuthSession, error) {
	return s.apply(ctx, sessionID, "select_map_area", func(sess *model.AuthSession) error {
		return s.dispatcher.SelectMapArea(sess, areaID)
	})
}

// BackToMap は厨房マップを全体図に戻す。
func (s *Service) BackToMap(ctx context.Context, sessionID string) (*model.AuthSession, error) {
	return s.apply(ctx, sessionID, "back_to_map", s.dispatcher.BackToMap)
}

// SelectDish は食器ガイドの食器を選択する。
func (s *Service) SelectDish(ctx context.Context, sessionID, dishID string) (*model.AuthSession, error) {
	return s.apply(ctx, sessionID, "select_dish", func(sess *model.AuthSession) error {
		return s.dispatcher.SelectDish(sess, dishID)
	})
}

// BackToDishList は食器ガイドを一覧に戻す。
func (s *Service) BackToDishList(ctx context.Context, sessionID string) (*model.AuthSession, error) {
	return s.apply(ctx, sessionID, "back_to_dish_list", s.dispatcher.BackToDishList)
}

// apply は遷移をセッションに適用する。遷移が失敗した場合、セッションは変更されない。
func (s *Service) apply(
	ctx context.Context,
	sessionID, op string,
	transition func(*model.AuthSession) error,
) (*model.AuthSession, error) {
	var transitionErr error
	session, err := s.sessionRepo.Update(ctx, sessionID, func(sess *model.AuthSession) {
		next := *sess
		if transitionErr = transition(&next); transitionErr == nil {
			*sess = next
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthenticatedError()
	}
	if transitionErr != nil {
		slog.Warn("page transition rejected",
			slog.String("session_id", sessionID),
			slog.String("operation", op),
			slog.String("error", transitionErr.Error()),
		)
		return nil, transitionErr
	}

	slog.Debug("page transition",
		slog.String("session_id", sessionID),
		slog.String("operation", op),
		slog.String("page", string(session.Page)),
	)
	return session, nil
}
