package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chumenium/spotlight/internal/auth"
	"github.com/chumenium/spotlight/internal/middleware"
	"github.com/chumenium/spotlight/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// ExchangeToken はFirebase IDトークンを検証しローカルのセッショントークンを発行する。
	ExchangeToken(ctx context.Context, idToken, fcmToken string) (*auth.ExchangeResult, error)
	// UpdateFCMToken は認証済みユーザーのFCM通知トークンを更新する。
	UpdateFCMToken(ctx context.Context, firebaseUID, token string) error
}

// ExchangeRecorder はトークン交換メトリクスの記録インターフェース。
type ExchangeRecorder interface {
	RecordTokenExchangeSuccess()
	RecordTokenExchangeFailure(reason string)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics ExchangeRecorder
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnilでもよい。
func NewAuthHandler(service AuthServiceInterface, metrics ExchangeRecorder) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
	}
}

// exchangeTokenRequest はトークン交換リクエストのボディ。
// tokenはFCM通知トークン（任意）。
type exchangeTokenRequest struct {
	IDToken  string `json:"id_token"`
	FCMToken string `json:"token"`
}

// updateTokenRequest はFCMトークン更新リクエストのボディ。
type updateTokenRequest struct {
	Token string `json:"token"`
}

// authUserResponse は認証ユーザー情報のAPIレスポンス。
type authUserResponse struct {
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
}

// ExchangeToken はFirebase IDトークンとローカルJWTの交換を処理する。
// POST /api/auth/firebase
func (h *AuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.recordFailure("malformed_body")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.IDToken == "" {
		h.recordFailure("missing_id_token")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("id_tokenは必須です"))
		return
	}

	result, err := h.service.ExchangeToken(r.Context(), req.IDToken, req.FCMToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrVerifierUnavailable):
			h.recordFailure("verifier_unavailable")
			writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewServerError())
		case errors.Is(err, auth.ErrInvalid):
			h.recordFailure("invalid_id_token")
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewAuthenticationError("IDトークンが無効です"))
		default:
			h.recordFailure("internal")
			handleServiceError(w, err)
		}
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTokenExchangeSuccess()
	}

	writeData(w, http.StatusOK, map[string]any{
		"jwt": result.Token,
		"user": authUserResponse{
			FirebaseUID: result.Claims.FirebaseUID,
			Email:       result.Claims.Email,
			Name:        result.Claims.Name,
			Picture:     result.Claims.Picture,
		},
	})
}

// UpdateToken はFCM通知トークンの更新を処理する。
// POST /api/auth/update_token
func (h *AuthHandler) UpdateToken(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthenticationError("認証が必要です"))
		return
	}

	var req updateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Token == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("tokenは必須です"))
		return
	}

	if err := h.service.UpdateFCMToken(r.Context(), claims.FirebaseUID, req.Token); err != nil {
		handleServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *AuthHandler) recordFailure(reason string) {
	if h.metrics != nil {
		h.metrics.RecordTokenExchangeFailure(reason)
	}
}
