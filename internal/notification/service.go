// Package notification は通知のドメインロジックを提供する。
package notification

import (
	"context"
	"fmt"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
)

// Recorder は通知作成メトリクスの記録インターフェース。
type Recorder interface {
	RecordNotificationCreated(ntype string)
}

// Service は通知のサービス層。
// 通知の作成・一覧取得・既読化を提供する。
type Service struct {
	repo    repository.NotificationRepository
	metrics Recorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewService(repo repository.NotificationRepository, metrics Recorder) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
	}
}

// List は指定ユーザー宛の通知を新しい順に取得する。総件数も返す。
func (s *Service) List(ctx context.Context, userID, limit, offset int) ([]model.NotificationWithActor, int, error) {
	notifications, total, err := s.repo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("通知一覧の取得に失敗しました: %w", err)
	}
	return notifications, total, nil
}

// MarkRead は指定ユーザー宛の通知を既読にする。
// 通知が存在しないか他ユーザー宛の場合はNotFoundエラーを返す。
func (s *Service) MarkRead(ctx context.Context, notificationID, userID int) error {
	found, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("通知の既読化に失敗しました: %w", err)
	}
	if !found {
		return model.NewNotificationNotFoundError(notificationID)
	}
	return nil
}

// NotifyComment はコメント投稿の通知をコンテンツ投稿者へ作成する。
func (s *Service) NotifyComment(ctx context.Context, recipientID, actorID, contentID, commentID int) error {
	return s.create(ctx, &model.Notification{
		UserID:    recipientID,
		ActorID:   actorID,
		ContentID: contentID,
		CommentID: &commentID,
		Type:      model.NotificationTypeComment,
	})
}

// NotifySpotlight はスポットライトの通知をコンテンツ投稿者へ作成する。
func (s *Service) NotifySpotlight(ctx context.Context, recipientID, actorID, contentID int) error {
	return s.create(ctx, &model.Notification{
		UserID:    recipientID,
		ActorID:   actorID,
		ContentID: contentID,
		Type:      model.NotificationTypeSpotlight,
	})
}

func (s *Service) create(ctx context.Context, n *model.Notification) error {
	if _, err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("通知の作成に失敗しました: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordNotificationCreated(string(n.Type))
	}
	return nil
}
