// Package content はコンテンツ投稿・閲覧のドメインロジックを提供する。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
	"github.com/chumenium/spotlight/internal/security"
)

// Notifier はスポットライト通知作成のインターフェース。
// 通知は付随処理であり、失敗してもスポットライト操作自体は成功扱いとする。
type Notifier interface {
	NotifySpotlight(ctx context.Context, recipientID, actorID, contentID int) error
}

// Service はコンテンツのサービス層。
// 詳細取得・一覧・投稿・スポットライト操作を提供する。
type Service struct {
	contentRepo repository.ContentRepository
	notifier    Notifier
	sanitizer   security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
// notifierはnilでもよい。
func NewService(
	contentRepo repository.ContentRepository,
	notifier Notifier,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		contentRepo: contentRepo,
		notifier:    notifier,
		sanitizer:   sanitizer,
	}
}

// GetDetail はコンテンツ詳細を閲覧ユーザーのフラグ付きで取得する。
// 閲覧ユーザーのcontentuser行が無い場合、フラグは両方falseになる。
func (s *Service) GetDetail(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error) {
	detail, err := s.contentRepo.FindDetail(ctx, contentID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("コンテンツ詳細の取得に失敗しました: %w", err)
	}
	if detail == nil {
		return nil, model.NewContentNotFoundError(contentID)
	}
	return detail, nil
}

// Get はコンテンツを投稿者情報付きで取得する。
func (s *Service) Get(ctx context.Context, contentID int) (*model.ContentWithOwner, error) {
	content, err := s.contentRepo.FindWithOwner(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("コンテンツの取得に失敗しました: %w", err)
	}
	if content == nil {
		return nil, model.NewContentNotFoundError(contentID)
	}
	return content, nil
}

// List はコンテンツ一覧を投稿日時の新しい順に取得する。総件数も返す。
func (s *Service) List(ctx context.Context, limit, offset int) ([]model.ContentWithOwner, int, error) {
	contents, total, err := s.contentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("コンテンツ一覧の取得に失敗しました: %w", err)
	}
	return contents, total, nil
}

// Create は新規コンテンツを投稿する。
// タイトルはサニタイズ後に非空であることを検証する。
func (s *Service) Create(ctx context.Context, userID int, title, link, contentPath string) (*model.Content, error) {
	title = s.sanitizer.Sanitize(title)
	if title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}

	created, err := s.contentRepo.Create(ctx, &model.Content{
		UserID:      userID,
		Title:       title,
		Link:        strings.TrimSpace(link),
		ContentPath: strings.TrimSpace(contentPath),
	})
	if err != nil {
		return nil, fmt.Errorf("コンテンツの作成に失敗しました: %w", err)
	}

	slog.Info("コンテンツを作成しました",
		slog.Int("content_id", created.ID),
		slog.Int("user_id", userID),
	)

	return created, nil
}

// SetSpotlight は閲覧ユーザーのスポットライトフラグを設定または解除する。
// フラグが実際に変化した場合のみspotlightnumが増減する（冪等）。
// 新規設定時は投稿者へ通知を作成する（自分の投稿と解除時を除く）。
func (s *Service) SetSpotlight(ctx context.Context, contentID, userID int, on bool) error {
	content, err := s.contentRepo.FindByID(ctx, contentID)
	if err != nil {
		return fmt.Errorf("コンテンツの取得に失敗しました: %w", err)
	}
	if content == nil {
		return model.NewContentNotFoundError(contentID)
	}

	changed, err := s.contentRepo.SetSpotlightFlag(ctx, contentID, userID, on)
	if err != nil {
		return fmt.Errorf("スポットライトの更新に失敗しました: %w", err)
	}

	// 新規設定時のみ通知。通知失敗は操作の成否に影響しない。
	if on && changed && content.UserID != userID && s.notifier != nil {
		if err := s.notifier.NotifySpotlight(ctx, content.UserID, userID, contentID); err != nil {
			slog.Warn("スポットライト通知の作成に失敗しました",
				slog.Int("content_id", contentID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
