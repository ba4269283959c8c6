// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chumenium/spotlight/internal/auth"
	"github.com/chumenium/spotlight/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// claimsContextKey はリクエストコンテキストに検証済みClaimsを格納するためのキー。
var claimsContextKey = contextKey("claims")

// UserFinder は認証済みユーザーの解決に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)
}

// GuardRejectionRecorder はトークン検証失敗のメトリクス記録インターフェース。
type GuardRejectionRecorder interface {
	RecordGuardRejection(reason string)
}

// NewJWTAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証する
// ミドルウェアを返す。検証済みClaimsと解決したユーザーIDを
// リクエストコンテキストに注入する。
// 未認証リクエストには401 Unauthorizedを返す。
func NewJWTAuthMiddleware(guard *auth.Guard, users UserFinder, rejections GuardRejectionRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := guard.Authorize(r.Header.Get("Authorization"))
			if err != nil {
				reason, message := rejectionReason(err)
				if rejections != nil {
					rejections.RecordGuardRejection(reason)
				}
				WriteError(w, http.StatusUnauthorized, model.ErrCodeAuthentication, message)
				return
			}

			// firebase_uidからローカルユーザーを解決
			user, err := users.FindByFirebaseUID(r.Context(), claims.FirebaseUID)
			if err != nil {
				slog.Error("failed to find user for token",
					slog.String("firebase_uid", claims.FirebaseUID),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil {
				WriteError(w, http.StatusUnauthorized, model.ErrCodeAuthentication, "ユーザーが見つかりません。再度ログインしてください。")
				return
			}

			ctx := ContextWithIdentity(r.Context(), user.ID, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectionReason はガードの失敗種別をメトリクスラベルとユーザー向け
// メッセージに変換する。
func rejectionReason(err error) (reason, message string) {
	switch {
	case errors.Is(err, auth.ErrMissingOrMalformed):
		return "missing_or_malformed", "認証トークンが指定されていません。"
	case errors.Is(err, auth.ErrExpired):
		return "expired", "認証トークンの有効期限が切れています。再度ログインしてください。"
	default:
		return "invalid", "認証トークンが不正です。"
	}
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取得する。
// JWT認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	if !ok || userID == 0 {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ClaimsFromContext はリクエストコンテキストから検証済みClaimsを取得する。
func ClaimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("claims not found in context")
	}
	return claims, nil
}

// ContextWithIdentity はコンテキストに認証済みユーザーIDとClaimsを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, userID int, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, userIDContextKey, userID)
	return context.WithValue(ctx, claimsContextKey, claims)
}
