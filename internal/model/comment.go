// Package model はドメインモデルを定義する。
package model

import "time"

// Comment はコンテンツへのコメントを表す。
// ParentCommentIDがnilの場合はトップレベルコメント、非nilの場合は返信。
type Comment struct {
	ID               int
	ContentID        int
	UserID           int
	CommentText      string
	ParentCommentID  *int
	CommentTimestamp time.Time
}

// CommentWithAuthor はコメントと投稿者情報の結合結果を表す。
type CommentWithAuthor struct {
	Comment
	Username    string
	IconImgPath string
}

// CommentCount はコンテンツごとのコメント集計を表す。
type CommentCount struct {
	ContentID     int
	TotalComments int
	TotalReplies  int
}
