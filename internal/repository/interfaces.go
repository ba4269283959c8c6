// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/chumenium/spotlight/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.User, error)

	// FindByFirebaseUID はfirebase_uidでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)

	// UpsertByFirebaseUID はfirebase_uidをキーにユーザーを作成または更新する。
	// 既存ユーザーの場合はemail/username/iconimgpathをIdP側の最新値で更新する。
	// fcmTokenは空でない場合のみ保存する。
	UpsertByFirebaseUID(ctx context.Context, firebaseUID, email, name, picture, fcmToken string) (*model.User, error)

	// UpdateFCMTokenByFirebaseUID は指定ユーザーのFCM通知トークンを更新する。
	UpdateFCMTokenByFirebaseUID(ctx context.Context, firebaseUID, token string) error

	// UpdateProfile はユーザーのプロフィール（username、iconimgpath）を更新する。
	// 空文字列のフィールドは変更しない。更新後のユーザーを返す。
	UpdateProfile(ctx context.Context, id int, username, iconImgPath string) (*model.User, error)

	// SearchByUsername はusernameの部分一致でユーザーを検索する。
	// 総件数と結果ページを返す。
	SearchByUsername(ctx context.Context, query string, limit, offset int) ([]model.User, int, error)
}

// ContentRepository はコンテンツデータの永続化インターフェース。
type ContentRepository interface {
	// FindByID は指定IDのコンテンツを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Content, error)

	// FindDetail はコンテンツ詳細を取得する。投稿者情報の結合、
	// 閲覧ユーザー固有のフラグ（contentuser行が無い場合は両方false）、
	// 次コンテンツID（現在のIDより大きい最小のID、存在しない場合はnil）を含む。
	// コンテンツが見つからない場合はnilを返す。
	FindDetail(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error)

	// FindWithOwner はコンテンツを投稿者情報付きで取得する。
	// 見つからない場合はnilを返す。
	FindWithOwner(ctx context.Context, id int) (*model.ContentWithOwner, error)

	// List はコンテンツ一覧をposttimestamp降順で取得する。総件数も返す。
	List(ctx context.Context, limit, offset int) ([]model.ContentWithOwner, int, error)

	// Create は新規コンテンツを作成する。採番されたIDとposttimestampを
	// 設定したコンテンツを返す。
	Create(ctx context.Context, content *model.Content) (*model.Content, error)

	// SetSpotlightFlag は(contentID, userID)のスポットライトフラグを設定する。
	// フラグが実際に変化した場合のみspotlightnumを増減し、trueを返す（冪等）。
	SetSpotlightFlag(ctx context.Context, contentID, userID int, on bool) (bool, error)

	// SearchByTitle はタイトルの部分一致でコンテンツを検索する。
	// 総件数と結果ページを返す。
	SearchByTitle(ctx context.Context, query string, limit, offset int) ([]model.ContentWithOwner, int, error)

	// SuggestTitles は前方一致するタイトルをplaynum降順で返す。
	SuggestTitles(ctx context.Context, prefix string, limit int) ([]TitleSuggestion, error)

	// CountByUserID はユーザーの投稿数を返す。
	CountByUserID(ctx context.Context, userID int) (int, error)

	// SumSpotlightByUserID はユーザーが投稿した全コンテンツの
	// スポットライト数合計を返す。
	SumSpotlightByUserID(ctx context.Context, userID int) (int, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Comment, error)

	// ListByContentID はコンテンツのコメント一覧を投稿者情報付きで、
	// commenttimestamp昇順で取得する。コメントが無い場合は空スライスを返す。
	ListByContentID(ctx context.Context, contentID int) ([]model.CommentWithAuthor, error)

	// Create は新規コメントを作成する。採番されたIDとcommenttimestampを
	// 設定したコメントを返す。
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// Delete は指定IDのコメントを削除する。
	Delete(ctx context.Context, id int) error

	// CountByContentID はコンテンツの総コメント数と返信数を返す。
	CountByContentID(ctx context.Context, contentID int) (*model.CommentCount, error)
}

// NotificationRepository は通知データの永続化インターフェース。
type NotificationRepository interface {
	// Create は通知を作成する。採番されたIDとcreatedatを設定した通知を返す。
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListByUserID は指定ユーザー宛の通知一覧を新しい順で取得する。
	// 総件数も返す。
	ListByUserID(ctx context.Context, userID, limit, offset int) ([]model.NotificationWithActor, int, error)

	// MarkRead は指定ユーザー宛の通知を既読にする。
	// 通知が存在しないか他ユーザー宛の場合はfalseを返す。
	MarkRead(ctx context.Context, notificationID, userID int) (bool, error)
}

// PlaylistRepository は再生リストデータの永続化インターフェース。
type PlaylistRepository interface {
	// ListByUserID はユーザーの再生リストをplaylistID順で取得し、
	// 各リストのコンテンツIDをグループ化して返す。
	ListByUserID(ctx context.Context, userID int) ([]model.Playlist, error)
}

// TitleSuggestion は検索候補のタイトルと再生回数を表す。
type TitleSuggestion struct {
	Title   string
	PlayNum int
}
