// Package user はユーザープロフィール・再生リストのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
)

// Profile はユーザープロフィールと投稿統計を表す。
type Profile struct {
	User      model.User
	PostCount int
}

// Service はユーザー管理のサービス層。
// プロフィール取得・更新と再生リスト取得を提供する。
type Service struct {
	userRepo     repository.UserRepository
	contentRepo  repository.ContentRepository
	playlistRepo repository.PlaylistRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	contentRepo repository.ContentRepository,
	playlistRepo repository.PlaylistRepository,
) *Service {
	return &Service{
		userRepo:     userRepo,
		contentRepo:  contentRepo,
		playlistRepo: playlistRepo,
	}
}

// GetProfile はユーザープロフィールを投稿数付きで取得する。
func (s *Service) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	postCount, err := s.contentRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("投稿数の取得に失敗しました: %w", err)
	}

	return &Profile{
		User:      *user,
		PostCount: postCount,
	}, nil
}

// UpdateProfile はユーザーのプロフィールを更新する。
// 本人のみが更新できる。空文字列のフィールドは変更しない。
func (s *Service) UpdateProfile(ctx context.Context, callerID, targetID int, username, iconImgPath string) (*model.User, error) {
	if callerID != targetID {
		return nil, model.NewAuthorizationError("プロフィールの更新は本人のみ可能です")
	}

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(targetID)
	}

	username = strings.TrimSpace(username)
	iconImgPath = strings.TrimSpace(iconImgPath)
	if username == "" && iconImgPath == "" {
		return nil, model.NewValidationError("更新するフィールドがありません")
	}

	updated, err := s.userRepo.UpdateProfile(ctx, targetID, username, iconImgPath)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	slog.Info("プロフィールを更新しました",
		slog.Int("user_id", targetID),
	)

	return updated, nil
}

// GetPlaylists はユーザーの再生リスト一覧を取得する。
// ユーザー情報と獲得スポットライト合計も含む。
func (s *Service) GetPlaylists(ctx context.Context, userID int) (*model.UserPlaylists, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	totalSpotlight, err := s.contentRepo.SumSpotlightByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("スポットライト合計の取得に失敗しました: %w", err)
	}

	playlists, err := s.playlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("再生リストの取得に失敗しました: %w", err)
	}

	return &model.UserPlaylists{
		UserID:         user.ID,
		Username:       user.Username,
		IconImgPath:    user.IconImgPath,
		TotalSpotlight: totalSpotlight,
		Playlists:      playlists,
	}, nil
}
