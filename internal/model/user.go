// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// FirebaseUIDが外部IdP（Firebase）アカウントとの安定した紐付けキーとなる。
type User struct {
	ID          int
	FirebaseUID string
	Username    string
	Email       string
	IconImgPath string
	FCMToken    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
