package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chumenium/spotlight/internal/model"
)

// ContentServiceInterface はコンテンツ詳細ハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	// GetDetail はコンテンツ詳細を閲覧ユーザーのフラグ付きで取得する。
	GetDetail(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error)
}

// ContentHandler はコンテンツ詳細読み取りのHTTPハンドラー。
// エンベロープを持たない素のJSONを返す。
type ContentHandler struct {
	service ContentServiceInterface
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(service ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

// contentDetailResponse はコンテンツ詳細のAPIレスポンス。
type contentDetailResponse struct {
	ContentID     int     `json:"contentID"`
	SpotlightNum  int     `json:"spotlightnum"`
	ContentPath   string  `json:"contentpath"`
	Link          string  `json:"link"`
	Title         string  `json:"title"`
	PostTimestamp *string `json:"posttimestamp"`
	PlayNum       int     `json:"playnum"`
	UserID        int     `json:"userID"`
	Username      string  `json:"username"`
	IconImgPath   string  `json:"iconimgpath"`
	SpotlightFlag bool    `json:"spotlightflag"`
	BookmarkFlag  bool    `json:"bookmarkflag"`
	NextContentID *int    `json:"nextContentID"`
}

// GetContentDetail はコンテンツ詳細取得を処理する。
// GET /api/content/{id}?user_id={viewerID}
func (h *ContentHandler) GetContentDetail(w http.ResponseWriter, r *http.Request) {
	contentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("contentIDが不正です"))
		return
	}

	viewerID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil || viewerID <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("user_idパラメータが必要です"))
		return
	}

	detail, err := h.service.GetDetail(r.Context(), contentID, viewerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var postTimestamp *string
	if !detail.PostTimestamp.IsZero() {
		ts := detail.PostTimestamp.Format(time.RFC3339)
		postTimestamp = &ts
	}

	writeJSON(w, http.StatusOK, contentDetailResponse{
		ContentID:     detail.ID,
		SpotlightNum:  detail.SpotlightNum,
		ContentPath:   detail.ContentPath,
		Link:          detail.Link,
		Title:         detail.Title,
		PostTimestamp: postTimestamp,
		PlayNum:       detail.PlayNum,
		UserID:        detail.UserID,
		Username:      detail.Username,
		IconImgPath:   detail.IconImgPath,
		SpotlightFlag: detail.SpotlightFlag,
		BookmarkFlag:  detail.BookmarkFlag,
		NextContentID: detail.NextContentID,
	})
}
