// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// エラー分類コードとユーザー向け対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, resource, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード。
// ValidationError → 400 / AuthenticationError → 400 or 401 /
// AuthorizationError → 403 / NotFoundError → 404 / ServerError → 500
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeAuthentication = "AUTHENTICATION_ERROR"
	ErrCodeAuthorization  = "AUTHORIZATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeServer         = "SERVER_ERROR"
)

// NewValidationError はリクエストフィールドの欠落・不正エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストパラメータを確認してください。",
	}
}

// NewAuthenticationError は認証情報の不正エラーを生成する。
func NewAuthenticationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeAuthentication,
		Message:  fmt.Sprintf("認証に失敗しました: %s", reason),
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewAuthorizationError は権限不足エラーを生成する。
// 認証済みだが対象リソースへの操作が許可されていない場合に使用する。
func NewAuthorizationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeAuthorization,
		Message:  fmt.Sprintf("この操作は許可されていません: %s", reason),
		Category: "auth",
		Action:   "自分のリソースに対してのみ実行できます。",
	}
}

// NewContentNotFoundError はコンテンツ未検出エラーを生成する。
func NewContentNotFoundError(contentID int) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定されたコンテンツが見つかりません: %d", contentID),
		Category: "resource",
		Action:   "コンテンツIDを確認してください。",
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError(commentID int) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定されたコメントが見つかりません: %d", commentID),
		Category: "resource",
		Action:   "コメントIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID int) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %d", userID),
		Category: "resource",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewNotificationNotFoundError は通知未検出エラーを生成する。
func NewNotificationNotFoundError(notificationID int) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定された通知が見つかりません: %d", notificationID),
		Category: "resource",
		Action:   "通知IDを確認してください。",
	}
}

// NewServerError は内部エラーを生成する。
// 分類できないエラーはすべてここに集約される。
func NewServerError() *APIError {
	return &APIError{
		Code:     ErrCodeServer,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
