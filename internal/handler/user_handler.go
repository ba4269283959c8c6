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
	"github.com/chumenium/spotlight/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetProfile はユーザープロフィールを投稿数付きで取得する。
	GetProfile(ctx context.Context, userID int) (*user.Profile, error)
	// UpdateProfile はユーザーのプロフィールを更新する。本人のみ可能。
	UpdateProfile(ctx context.Context, callerID, targetID int, username, iconImgPath string) (*model.User, error)
	// GetPlaylists はユーザーの再生リスト一覧を取得する。
	GetPlaylists(ctx context.Context, userID int) (*model.UserPlaylists, error)
}

// UserHandler はユーザーのHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
type updateProfileRequest struct {
	Username    string `json:"username"`
	IconImgPath string `json:"iconimgpath"`
}

// playlistResponse は再生リストのAPIレスポンス。
type playlistResponse struct {
	PlaylistID int   `json:"playlistID"`
	ContentIDs []int `json:"contentIDs"`
}

// GetUser はユーザープロフィール取得を処理する。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("userIDが不正です"))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"userID":      profile.User.ID,
			"username":    profile.User.Username,
			"email":       profile.User.Email,
			"iconimgpath": profile.User.IconImgPath,
			"postsCount":  profile.PostCount,
			"createdAt":   profile.User.CreatedAt.Format(time.RFC3339),
		},
	})
}

// UpdateUser はプロフィール更新を処理する。
// PUT /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("userIDが不正です"))
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), callerID, targetID, req.Username, req.IconImgPath)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"userID":      updated.ID,
			"username":    updated.Username,
			"iconimgpath": updated.IconImgPath,
			"updatedAt":   updated.UpdatedAt.Format(time.RFC3339),
		},
	})
}

// GetUserPlaylists はユーザーの再生リスト一覧取得を処理する。
// GET /api/users/{id}/playlists
func (h *UserHandler) GetUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("userIDが不正です"))
		return
	}

	result, err := h.service.GetPlaylists(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	playlists := make([]playlistResponse, 0, len(result.Playlists))
	for _, p := range result.Playlists {
		contentIDs := p.ContentIDs
		if contentIDs == nil {
			contentIDs = []int{}
		}
		playlists = append(playlists, playlistResponse{
			PlaylistID: p.PlaylistID,
			ContentIDs: contentIDs,
		})
	}

	writeData(w, http.StatusOK, map[string]any{
		"userID":         result.UserID,
		"username":       result.Username,
		"iconimgpath":    result.IconImgPath,
		"totalSpotlight": result.TotalSpotlight,
		"playlists":      playlists,
	})
}
