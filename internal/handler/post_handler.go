package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chumenium/spotlight/internal/middleware"
	"github.com/chumenium/spotlight/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// List はコンテンツ一覧を投稿日時の新しい順に取得する。
	List(ctx context.Context, limit, offset int) ([]model.ContentWithOwner, int, error)
	// Get はコンテンツを投稿者情報付きで取得する。
	Get(ctx context.Context, contentID int) (*model.ContentWithOwner, error)
	// Create は新規コンテンツを投稿する。
	Create(ctx context.Context, userID int, title, link, contentPath string) (*model.Content, error)
	// SetSpotlight はスポットライトフラグを設定または解除する。
	SetSpotlight(ctx context.Context, contentID, userID int, on bool) error
}

// PostHandler は投稿のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// createPostRequest は投稿作成リクエストのボディ。
type createPostRequest struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	ContentPath string `json:"contentpath"`
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ContentID     int    `json:"contentID"`
	UserID        int    `json:"userID"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	ContentPath   string `json:"contentpath"`
	SpotlightNum  int    `json:"spotlightnum"`
	PlayNum       int    `json:"playnum"`
	PostTimestamp string `json:"posttimestamp"`
}

// postWithOwnerResponse は投稿と投稿者情報のAPIレスポンス。
type postWithOwnerResponse struct {
	postResponse
	Username    string `json:"username"`
	IconImgPath string `json:"iconimgpath"`
}

func newPostResponse(c *model.Content) postResponse {
	return postResponse{
		ContentID:     c.ID,
		UserID:        c.UserID,
		Title:         c.Title,
		Link:          c.Link,
		ContentPath:   c.ContentPath,
		SpotlightNum:  c.SpotlightNum,
		PlayNum:       c.PlayNum,
		PostTimestamp: c.PostTimestamp.Format(time.RFC3339),
	}
}

func newPostWithOwnerResponses(contents []model.ContentWithOwner) []postWithOwnerResponse {
	responses := make([]postWithOwnerResponse, 0, len(contents))
	for i := range contents {
		responses = append(responses, postWithOwnerResponse{
			postResponse: newPostResponse(&contents[i].Content),
			Username:     contents[i].Username,
			IconImgPath:  contents[i].IconImgPath,
		})
	}
	return responses
}

// ListPosts は投稿一覧取得を処理する。
// GET /api/posts?page=&limit=
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	contents, total, err := h.service.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"posts":      newPostWithOwnerResponses(contents),
		"pagination": newPagination(page, limit, total),
	})
}

// GetPost は単一投稿の取得を処理する。
// GET /api/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	contentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("contentIDが不正です"))
		return
	}

	content, err := h.service.Get(r.Context(), contentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, postWithOwnerResponse{
		postResponse: newPostResponse(&content.Content),
		Username:     content.Username,
		IconImgPath:  content.IconImgPath,
	})
}

// CreatePost は投稿作成を処理する。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Title, req.Link, req.ContentPath)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, newPostResponse(created))
}

// Spotlight はスポットライト設定を処理する。
// POST /api/posts/{id}/spotlight
func (h *PostHandler) Spotlight(w http.ResponseWriter, r *http.Request) {
	h.setSpotlight(w, r, true)
}

// Unspotlight はスポットライト解除を処理する。
// DELETE /api/posts/{id}/spotlight
func (h *PostHandler) Unspotlight(w http.ResponseWriter, r *http.Request) {
	h.setSpotlight(w, r, false)
}

func (h *PostHandler) setSpotlight(w http.ResponseWriter, r *http.Request, on bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	contentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("contentIDが不正です"))
		return
	}

	if err := h.service.SetSpotlight(r.Context(), contentID, userID, on); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"contentID":   contentID,
		"spotlighted": on,
	})
}
