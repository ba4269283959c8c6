// Package model はドメインモデルを定義する。
package model

import "time"

// NotificationType は通知の種別を表す。
type NotificationType string

const (
	// NotificationTypeComment はコメント投稿による通知。
	NotificationTypeComment NotificationType = "comment"
	// NotificationTypeSpotlight はスポットライトによる通知。
	NotificationTypeSpotlight NotificationType = "spotlight"
)

// Notification はユーザーへの通知を表す。
// UserIDは通知の受信者、ActorIDは通知を発生させたユーザー。
type Notification struct {
	ID        int
	UserID    int
	ActorID   int
	ContentID int
	CommentID *int
	Type      NotificationType
	IsRead    bool
	CreatedAt time.Time
}

// NotificationWithActor は通知と発生元ユーザー情報の結合結果を表す。
type NotificationWithActor struct {
	Notification
	ActorName    string
	ActorIconImg string
}
