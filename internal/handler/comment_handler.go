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

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// ListByContent はコンテンツのコメント一覧を古い順に取得する。
	ListByContent(ctx context.Context, contentID int) ([]model.CommentWithAuthor, error)
	// Create は新規コメントを投稿する。
	Create(ctx context.Context, userID, contentID int, text string, parentCommentID *int) (*model.Comment, error)
	// Delete はコメントを削除する。投稿者本人のみ可能。
	Delete(ctx context.Context, commentID, userID int) error
	// Count はコンテンツの総コメント数と返信数を返す。
	Count(ctx context.Context, contentID int) (*model.CommentCount, error)
}

// CommentHandler はコメントのHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest はコメント投稿リクエストのボディ。
type createCommentRequest struct {
	ContentID       int    `json:"contentID"`
	CommentText     string `json:"commenttext"`
	ParentCommentID *int   `json:"parentcommentID"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	CommentID        int     `json:"commentID"`
	ContentID        int     `json:"contentID"`
	UserID           int     `json:"userID"`
	CommentText      string  `json:"commenttext"`
	ParentCommentID  *int    `json:"parentcommentID"`
	CommentTimestamp *string `json:"commenttimestamp"`
}

// commentWithAuthorResponse はコメントと投稿者情報のAPIレスポンス。
type commentWithAuthorResponse struct {
	commentResponse
	Username    string `json:"username"`
	IconImgPath string `json:"iconimgpath"`
}

func newCommentResponse(c *model.Comment) commentResponse {
	var ts *string
	if !c.CommentTimestamp.IsZero() {
		v := c.CommentTimestamp.Format(time.RFC3339)
		ts = &v
	}
	return commentResponse{
		CommentID:        c.ID,
		ContentID:        c.ContentID,
		UserID:           c.UserID,
		CommentText:      c.CommentText,
		ParentCommentID:  c.ParentCommentID,
		CommentTimestamp: ts,
	}
}

// ListComments はコンテンツのコメント一覧取得を処理する。
// エンベロープを持たない素のJSON配列を返す。コメントが無い場合は空配列。
// GET /api/comments/{id}
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	contentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("contentIDが不正です"))
		return
	}

	comments, err := h.service.ListByContent(r.Context(), contentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]commentWithAuthorResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, commentWithAuthorResponse{
			commentResponse: newCommentResponse(&comments[i].Comment),
			Username:        comments[i].Username,
			IconImgPath:     comments[i].IconImgPath,
		})
	}

	writeJSON(w, http.StatusOK, responses)
}

// CreateComment はコメント投稿を処理する。
// POST /api/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.ContentID <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("contentIDは必須です"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.ContentID, req.CommentText, req.ParentCommentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, newCommentResponse(created))
}

// DeleteComment はコメント削除を処理する。
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	commentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("commentIDが不正です"))
		return
	}

	if err := h.service.Delete(r.Context(), commentID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"deleted": true})
}

// CountComments はコメント集計の取得を処理する。
// GET /api/comments/{id}/count
func (h *CommentHandler) CountComments(w http.ResponseWriter, r *http.Request) {
	contentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("contentIDが不正です"))
		return
	}

	count, err := h.service.Count(r.Context(), contentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"contentID":     count.ContentID,
		"totalComments": count.TotalComments,
		"totalReplies":  count.TotalReplies,
	})
}
