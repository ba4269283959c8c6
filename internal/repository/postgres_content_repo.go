package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chumenium/spotlight/internal/model"
)

// PostgresContentRepo はPostgreSQLを使用したコンテンツリポジトリ。
type PostgresContentRepo struct {
	db *sql.DB
}

// NewPostgresContentRepo はPostgresContentRepoを生成する。
func NewPostgresContentRepo(db *sql.DB) *PostgresContentRepo {
	return &PostgresContentRepo{db: db}
}

// FindByID は指定IDのコンテンツを取得する。見つからない場合はnilを返す。
func (r *PostgresContentRepo) FindByID(ctx context.Context, id int) (*model.Content, error) {
	c := &model.Content{}
	err := r.db.QueryRowContext(ctx,
		`SELECT contentid, userid, title, link, contentpath, spotlightnum, playnum, posttimestamp
		 FROM content WHERE contentid = $1`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.Link, &c.ContentPath, &c.SpotlightNum, &c.PlayNum, &c.PostTimestamp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content by ID: %w", err)
	}

	return c, nil
}

// FindDetail はコンテンツ詳細を取得する。
// 3つのクエリで構成される: コンテンツと投稿者の結合、閲覧ユーザー固有の
// フラグ（行が無い場合は両方false）、次コンテンツID（MIN(contentid) > 現在ID）。
func (r *PostgresContentRepo) FindDetail(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error) {
	detail := &model.ContentDetail{}
	err := r.db.QueryRowContext(ctx,
		`SELECT c.contentid, c.userid, c.title, c.link, c.contentpath,
		        c.spotlightnum, c.playnum, c.posttimestamp,
		        u.username, u.iconimgpath
		 FROM content c
		 JOIN users u ON c.userid = u.userid
		 WHERE c.contentid = $1`,
		contentID,
	).Scan(
		&detail.ID, &detail.UserID, &detail.Title, &detail.Link, &detail.ContentPath,
		&detail.SpotlightNum, &detail.PlayNum, &detail.PostTimestamp,
		&detail.Username, &detail.IconImgPath,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content detail: %w", err)
	}

	// 閲覧ユーザー固有のフラグ。行が無い場合はデフォルトのfalseのまま。
	err = r.db.QueryRowContext(ctx,
		`SELECT spotlightflag, bookmarkflag
		 FROM contentuser
		 WHERE contentid = $1 AND userid = $2`,
		contentID, viewerID,
	).Scan(&detail.SpotlightFlag, &detail.BookmarkFlag)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to find content flags: %w", err)
	}

	// 次のコンテンツID（現在のIDより大きい最小のID）
	var next sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT MIN(contentid) FROM content WHERE contentid > $1`,
		contentID,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("failed to find next content ID: %w", err)
	}
	if next.Valid {
		n := int(next.Int64)
		detail.NextContentID = &n
	}

	return detail, nil
}

// FindWithOwner はコンテンツを投稿者情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresContentRepo) FindWithOwner(ctx context.Context, id int) (*model.ContentWithOwner, error) {
	c := &model.ContentWithOwner{}
	err := r.db.QueryRowContext(ctx,
		`SELECT c.contentid, c.userid, c.title, c.link, c.contentpath,
		        c.spotlightnum, c.playnum, c.posttimestamp,
		        u.username, u.iconimgpath
		 FROM content c
		 JOIN users u ON c.userid = u.userid
		 WHERE c.contentid = $1`,
		id,
	).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Link, &c.ContentPath,
		&c.SpotlightNum, &c.PlayNum, &c.PostTimestamp,
		&c.Username, &c.IconImgPath,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content with owner: %w", err)
	}

	return c, nil
}

// List はコンテンツ一覧をposttimestamp降順で取得する。
func (r *PostgresContentRepo) List(ctx context.Context, limit, offset int) ([]model.ContentWithOwner, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contents: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.contentid, c.userid, c.title, c.link, c.contentpath,
		        c.spotlightnum, c.playnum, c.posttimestamp,
		        u.username, u.iconimgpath
		 FROM content c
		 JOIN users u ON c.userid = u.userid
		 ORDER BY c.posttimestamp DESC, c.contentid DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	contents, err := scanContentsWithOwner(rows)
	if err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

// Create は新規コンテンツを作成する。
func (r *PostgresContentRepo) Create(ctx context.Context, content *model.Content) (*model.Content, error) {
	created := *content
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO content (userid, title, link, contentpath, spotlightnum, playnum, posttimestamp)
		 VALUES ($1, $2, $3, $4, 0, 0, now())
		 RETURNING contentid, spotlightnum, playnum, posttimestamp`,
		content.UserID, content.Title, content.Link, content.ContentPath,
	).Scan(&created.ID, &created.SpotlightNum, &created.PlayNum, &created.PostTimestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w", err)
	}

	return &created, nil
}

// SetSpotlightFlag は(contentID, userID)のスポットライトフラグを設定する。
// フラグの変化とカウンタの増減を同一トランザクションで行う（冪等）。
func (r *PostgresContentRepo) SetSpotlightFlag(ctx context.Context, contentID, userID int, on bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 現在のフラグ状態を取得（行が無い場合はfalse扱い）
	var current bool
	err = tx.QueryRowContext(ctx,
		`SELECT spotlightflag FROM contentuser WHERE contentid = $1 AND userid = $2 FOR UPDATE`,
		contentID, userID,
	).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to lock content flags: %w", err)
	}

	if current == on {
		// 変化なし。カウンタも変更しない。
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contentuser (contentid, userid, spotlightflag, bookmarkflag)
		 VALUES ($1, $2, $3, false)
		 ON CONFLICT (contentid, userid) DO UPDATE SET spotlightflag = $3`,
		contentID, userID, on,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert content flags: %w", err)
	}

	delta := 1
	if !on {
		delta = -1
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE content SET spotlightnum = GREATEST(spotlightnum + $2, 0) WHERE contentid = $1`,
		contentID, delta,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update spotlight count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// SearchByTitle はタイトルの部分一致でコンテンツを検索する。
func (r *PostgresContentRepo) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]model.ContentWithOwner, int, error) {
	pattern := "%" + query + "%"

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content WHERE title ILIKE $1`,
		pattern,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.contentid, c.userid, c.title, c.link, c.contentpath,
		        c.spotlightnum, c.playnum, c.posttimestamp,
		        u.username, u.iconimgpath
		 FROM content c
		 JOIN users u ON c.userid = u.userid
		 WHERE c.title ILIKE $1
		 ORDER BY c.posttimestamp DESC, c.contentid DESC
		 LIMIT $2 OFFSET $3`,
		pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search contents: %w", err)
	}
	defer rows.Close()

	contents, err := scanContentsWithOwner(rows)
	if err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

// SuggestTitles は前方一致するタイトルをplaynum降順で返す。
func (r *PostgresContentRepo) SuggestTitles(ctx context.Context, prefix string, limit int) ([]TitleSuggestion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT title, playnum
		 FROM content
		 WHERE title ILIKE $1
		 ORDER BY playnum DESC, contentid
		 LIMIT $2`,
		prefix+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest titles: %w", err)
	}
	defer rows.Close()

	suggestions := []TitleSuggestion{}
	for rows.Next() {
		var s TitleSuggestion
		if err := rows.Scan(&s.Title, &s.PlayNum); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suggestions: %w", err)
	}

	return suggestions, nil
}

// CountByUserID はユーザーの投稿数を返す。
func (r *PostgresContentRepo) CountByUserID(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content WHERE userid = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user contents: %w", err)
	}
	return count, nil
}

// SumSpotlightByUserID はユーザーの全投稿のスポットライト数合計を返す。
func (r *PostgresContentRepo) SumSpotlightByUserID(ctx context.Context, userID int) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(spotlightnum), 0) FROM content WHERE userid = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum spotlight count: %w", err)
	}
	return total, nil
}

// scanContentsWithOwner は投稿者情報付きコンテンツの行集合をスキャンする。
func scanContentsWithOwner(rows *sql.Rows) ([]model.ContentWithOwner, error) {
	contents := []model.ContentWithOwner{}
	for rows.Next() {
		var c model.ContentWithOwner
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Title, &c.Link, &c.ContentPath,
			&c.SpotlightNum, &c.PlayNum, &c.PostTimestamp,
			&c.Username, &c.IconImgPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contents: %w", err)
	}
	return contents, nil
}

var _ ContentRepository = (*PostgresContentRepo)(nil)
