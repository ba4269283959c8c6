package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chumenium/spotlight/internal/model"
)

// PostgresPlaylistRepo はPostgreSQLを使用したプレイリストリポジトリ。
type PostgresPlaylistRepo struct {
	db *sql.DB
}

// NewPostgresPlaylistRepo はPostgresPlaylistRepoを生成する。
func NewPostgresPlaylistRepo(db *sql.DB) *PostgresPlaylistRepo {
	return &PostgresPlaylistRepo{db: db}
}

// ListByUserID はユーザーのプレイリスト一覧を、各プレイリストの
// コンテンツID（追加順）付きで取得する。
func (r *PostgresPlaylistRepo) ListByUserID(ctx context.Context, userID int) ([]model.Playlist, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.playlistid, d.contentid
		 FROM playlist p
		 LEFT JOIN playlistdetail d ON p.playlistid = d.playlistid
		 WHERE p.userid = $1
		 ORDER BY p.playlistid, d.playlistdetailid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []model.Playlist{}
	var current *model.Playlist
	for rows.Next() {
		var playlistID int
		var contentID sql.NullInt64
		if err := rows.Scan(&playlistID, &contentID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist row: %w", err)
		}

		if current == nil || current.PlaylistID != playlistID {
			playlists = append(playlists, model.Playlist{PlaylistID: playlistID, ContentIDs: []int{}})
			current = &playlists[len(playlists)-1]
		}
		if contentID.Valid {
			current.ContentIDs = append(current.ContentIDs, int(contentID.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist rows: %w", err)
	}

	return playlists, nil
}

var _ PlaylistRepository = (*PostgresPlaylistRepo)(nil)
