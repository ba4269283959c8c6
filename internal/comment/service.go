// Package comment はコメント投稿・取得のドメインロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
	"github.com/chumenium/spotlight/internal/security"
)

// Notifier はコメント通知作成のインターフェース。
// 通知は付随処理であり、失敗してもコメント投稿自体は成功扱いとする。
type Notifier interface {
	NotifyComment(ctx context.Context, recipientID, actorID, contentID, commentID int) error
}

// Service はコメントのサービス層。
// 投稿・一覧・削除・集計を提供する。
type Service struct {
	commentRepo repository.CommentRepository
	contentRepo repository.ContentRepository
	notifier    Notifier
	sanitizer   security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
// notifierはnilでもよい。
func NewService(
	commentRepo repository.CommentRepository,
	contentRepo repository.ContentRepository,
	notifier Notifier,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		contentRepo: contentRepo,
		notifier:    notifier,
		sanitizer:   sanitizer,
	}
}

// ListByContent はコンテンツのコメント一覧を投稿者情報付きで古い順に取得する。
// コメントが1件も無い場合は空スライスを返す。
func (s *Service) ListByContent(ctx context.Context, contentID int) ([]model.CommentWithAuthor, error) {
	comments, err := s.commentRepo.ListByContentID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	return comments, nil
}

// Create は新規コメントを投稿する。
// フロー: サニタイズ → 非空検証 → コンテンツ存在確認 → 親コメント確認 → 作成 → 通知
// 親コメントを指定する場合、同一コンテンツのコメントである必要がある。
func (s *Service) Create(ctx context.Context, userID, contentID int, text string, parentCommentID *int) (*model.Comment, error) {
	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return nil, model.NewValidationError("コメント本文は必須です")
	}

	content, err := s.contentRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("コンテンツの取得に失敗しました: %w", err)
	}
	if content == nil {
		return nil, model.NewContentNotFoundError(contentID)
	}

	if parentCommentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *parentCommentID)
		if err != nil {
			return nil, fmt.Errorf("親コメントの取得に失敗しました: %w", err)
		}
		if parent == nil || parent.ContentID != contentID {
			return nil, model.NewCommentNotFoundError(*parentCommentID)
		}
	}

	created, err := s.commentRepo.Create(ctx, &model.Comment{
		ContentID:       contentID,
		UserID:          userID,
		CommentText:     text,
		ParentCommentID: parentCommentID,
	})
	if err != nil {
		return nil, fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}

	// 投稿者への通知。自分のコンテンツへのコメントは通知しない。
	// 通知失敗はコメント投稿の成否に影響しない。
	if content.UserID != userID && s.notifier != nil {
		if err := s.notifier.NotifyComment(ctx, content.UserID, userID, contentID, created.ID); err != nil {
			slog.Warn("コメント通知の作成に失敗しました",
				slog.Int("content_id", contentID),
				slog.Int("comment_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return created, nil
}

// Delete はコメントを削除する。返信も同時に削除される。
// 投稿者本人のみが削除できる。
func (s *Service) Delete(ctx context.Context, commentID, userID int) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}
	if comment.UserID != userID {
		return model.NewAuthorizationError("コメントの削除は投稿者のみ可能です")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("コメントの削除に失敗しました: %w", err)
	}

	return nil
}

// Count はコンテンツの総コメント数と返信数を返す。
func (s *Service) Count(ctx context.Context, contentID int) (*model.CommentCount, error) {
	content, err := s.contentRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("コンテンツの取得に失敗しました: %w", err)
	}
	if content == nil {
		return nil, model.NewContentNotFoundError(contentID)
	}

	count, err := s.commentRepo.CountByContentID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("コメント数の取得に失敗しました: %w", err)
	}
	return count, nil
}
