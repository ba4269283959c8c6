// Package model はドメインモデルを定義する。
package model

import "time"

// Content は投稿されたコンテンツを表す。
type Content struct {
	ID            int
	UserID        int
	Title         string
	Link          string
	ContentPath   string
	SpotlightNum  int
	PlayNum       int
	PostTimestamp time.Time
}

// ContentDetail はコンテンツ詳細取得のための結合結果を表す。
// 投稿者情報、閲覧ユーザー固有のフラグ、次コンテンツIDを含む。
type ContentDetail struct {
	Content
	Username      string
	IconImgPath   string
	SpotlightFlag bool
	BookmarkFlag  bool
	NextContentID *int // 現在のIDより大きい最小のコンテンツID。存在しない場合はnil。
}

// ContentWithOwner はコンテンツと投稿者情報の結合結果を表す。
// 一覧・検索用。
type ContentWithOwner struct {
	Content
	Username    string
	IconImgPath string
}

// Playlist は1つの再生リストとそこに含まれるコンテンツIDを表す。
type Playlist struct {
	PlaylistID int
	ContentIDs []int
}

// UserPlaylists はユーザーの再生リスト一覧取得の結合結果を表す。
type UserPlaylists struct {
	UserID         int
	Username       string
	IconImgPath    string
	TotalSpotlight int
	Playlists      []Playlist
}
