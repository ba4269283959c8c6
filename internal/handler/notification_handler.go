package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chumenium/spotlight/internal/middleware"
	"github.com/chumenium/spotlight/internal/model"
)

// NotificationServiceInterface は通知ハンドラーが必要とするサービスインターフェース。
type NotificationServiceInterface interface {
	// List は指定ユーザー宛の通知を新しい順に取得する。
	List(ctx context.Context, userID, limit, offset int) ([]model.NotificationWithActor, int, error)
	// MarkRead は指定ユーザー宛の通知を既読にする。
	MarkRead(ctx context.Context, notificationID, userID int) error
}

// NotificationHandler は通知のHTTPハンドラー。
type NotificationHandler struct {
	service NotificationServiceInterface
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// notificationResponse は通知のAPIレスポンス。
type notificationResponse struct {
	NotificationID int    `json:"notificationID"`
	Type           string `json:"type"`
	ContentID      int    `json:"contentID"`
	CommentID      *int   `json:"commentID,omitempty"`
	ActorID        int    `json:"actorID"`
	ActorName      string `json:"actorName"`
	ActorIconImg   string `json:"actorIconImg"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt"`
}

// ListNotifications は通知一覧取得を処理する。
// GET /api/notifications?page=&limit=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	page, limit := parsePagination(r)

	notifications, total, err := h.service.List(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		responses = append(responses, notificationResponse{
			NotificationID: n.ID,
			Type:           string(n.Type),
			ContentID:      n.ContentID,
			CommentID:      n.CommentID,
			ActorID:        n.ActorID,
			ActorName:      n.ActorName,
			ActorIconImg:   n.ActorIconImg,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		})
	}

	writeData(w, http.StatusOK, map[string]any{
		"notifications": responses,
		"pagination":    newPagination(page, limit, total),
	})
}

// MarkNotificationRead は通知の既読化を処理する。
// PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	notificationID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("notificationIDが不正です"))
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"notificationID": notificationID,
		"isRead":         true,
	})
}
