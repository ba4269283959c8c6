package handler

import (
	"context"
	"net/http"

	"github.com/chumenium/spotlight/internal/repository"
	"github.com/chumenium/spotlight/internal/search"
)

// SearchServiceInterface は検索ハンドラーが必要とするサービスインターフェース。
type SearchServiceInterface interface {
	// Search はコンテンツタイトルとユーザー名の部分一致検索を行う。
	Search(ctx context.Context, query, searchType string, limit, offset int) (*search.Result, error)
	// Suggest は前方一致するコンテンツタイトルを再生数の多い順に返す。
	Suggest(ctx context.Context, query string) ([]repository.TitleSuggestion, error)
}

// SearchHandler は検索のHTTPハンドラー。
type SearchHandler struct {
	service SearchServiceInterface
}

// NewSearchHandler はSearchHandlerを生成する。
func NewSearchHandler(service SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchUserResponse は検索結果のユーザーAPIレスポンス。
type searchUserResponse struct {
	UserID      int    `json:"userID"`
	Username    string `json:"username"`
	IconImgPath string `json:"iconimgpath"`
}

// suggestionResponse は検索候補のAPIレスポンス。
type suggestionResponse struct {
	Title   string `json:"title"`
	PlayNum int    `json:"playnum"`
}

// Search は検索を処理する。
// GET /api/search?q=&type=&page=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	searchType := r.URL.Query().Get("type")
	page, limit := parsePagination(r)

	result, err := h.service.Search(r.Context(), query, searchType, limit, (page-1)*limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	users := make([]searchUserResponse, 0, len(result.Users))
	for i := range result.Users {
		users = append(users, searchUserResponse{
			UserID:      result.Users[i].ID,
			Username:    result.Users[i].Username,
			IconImgPath: result.Users[i].IconImgPath,
		})
	}

	total := result.PostsTotal
	if result.UsersTotal > total {
		total = result.UsersTotal
	}

	writeData(w, http.StatusOK, map[string]any{
		"results": map[string]any{
			"posts": newPostWithOwnerResponses(result.Posts),
			"users": users,
		},
		"pagination": newPagination(page, limit, total),
	})
}

// Suggest は検索候補の取得を処理する。
// GET /api/search/suggestions?q=
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, suggestionResponse{Title: s.Title, PlayNum: s.PlayNum})
	}

	writeData(w, http.StatusOK, map[string]any{"suggestions": responses})
}
