// Package search はコンテンツ・ユーザー検索のドメインロジックを提供する。
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
)

// 検索対象の種別。
const (
	TypeAll   = "all"
	TypePosts = "posts"
	TypeUsers = "users"
)

// maxSuggestions は検索候補の最大件数。
const maxSuggestions = 10

// Result は検索結果を表す。検索種別に含まれない側はnilになる。
type Result struct {
	Posts      []model.ContentWithOwner
	PostsTotal int
	Users      []model.User
	UsersTotal int
}

// Service は検索のサービス層。
type Service struct {
	contentRepo repository.ContentRepository
	userRepo    repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(contentRepo repository.ContentRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		contentRepo: contentRepo,
		userRepo:    userRepo,
	}
}

// Search はコンテンツタイトルとユーザー名の部分一致検索を行う。
// searchTypeはall / posts / usersのいずれか。
// クエリが空の場合は検証エラーを返す。
func (s *Service) Search(ctx context.Context, query, searchType string, limit, offset int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewValidationError("検索キーワードは必須です")
	}

	if searchType == "" {
		searchType = TypeAll
	}
	if searchType != TypeAll && searchType != TypePosts && searchType != TypeUsers {
		return nil, model.NewValidationError("typeはall / posts / usersのいずれかを指定してください")
	}

	result := &Result{}

	if searchType == TypeAll || searchType == TypePosts {
		posts, total, err := s.contentRepo.SearchByTitle(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("コンテンツ検索に失敗しました: %w", err)
		}
		result.Posts = posts
		result.PostsTotal = total
	}

	if searchType == TypeAll || searchType == TypeUsers {
		users, total, err := s.userRepo.SearchByUsername(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("ユーザー検索に失敗しました: %w", err)
		}
		result.Users = users
		result.UsersTotal = total
	}

	return result, nil
}

// Suggest は前方一致するコンテンツタイトルを再生数の多い順に返す。
// クエリが空の場合は空スライスを返す。
func (s *Service) Suggest(ctx context.Context, query string) ([]repository.TitleSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []repository.TitleSuggestion{}, nil
	}

	suggestions, err := s.contentRepo.SuggestTitles(ctx, query, maxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("検索候補の取得に失敗しました: %w", err)
	}
	return suggestions, nil
}
