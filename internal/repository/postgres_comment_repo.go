package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chumenium/spotlight/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id int) (*model.Comment, error) {
	c := &model.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT commentid, contentid, userid, commenttext, parentcommentid, commenttimestamp
		 FROM comment WHERE commentid = $1`,
		id,
	).Scan(&c.ID, &c.ContentID, &c.UserID, &c.CommentText, &c.ParentCommentID, &c.CommentTimestamp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}

	return c, nil
}

// ListByContentID はコンテンツのコメントを投稿者情報付きで時系列昇順に取得する。
func (r *PostgresCommentRepo) ListByContentID(ctx context.Context, contentID int) ([]model.CommentWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.commentid, c.contentid, c.userid, c.commenttext, c.parentcommentid, c.commenttimestamp,
		        u.username, u.iconimgpath
		 FROM comment c
		 JOIN users u ON c.userid = u.userid
		 WHERE c.contentid = $1
		 ORDER BY c.commenttimestamp ASC, c.commentid ASC`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []model.CommentWithAuthor{}
	for rows.Next() {
		var c model.CommentWithAuthor
		if err := rows.Scan(
			&c.ID, &c.ContentID, &c.UserID, &c.CommentText, &c.ParentCommentID, &c.CommentTimestamp,
			&c.Username, &c.IconImgPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// Create は新規コメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	created := *comment
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comment (contentid, userid, commenttext, parentcommentid, commenttimestamp)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING commentid, commenttimestamp`,
		comment.ContentID, comment.UserID, comment.CommentText, comment.ParentCommentID,
	).Scan(&created.ID, &created.CommentTimestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return &created, nil
}

// Delete はコメントと、そのコメントへの返信を削除する。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comment WHERE parentcommentid = $1`, id,
	); err != nil {
		return fmt.Errorf("failed to delete replies: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM comment WHERE commentid = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// CountByContentID はコメント総数と返信数を返す。
func (r *PostgresCommentRepo) CountByContentID(ctx context.Context, contentID int) (*model.CommentCount, error) {
	count := &model.CommentCount{ContentID: contentID}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(parentcommentid)
		 FROM comment WHERE contentid = $1`,
		contentID,
	).Scan(&count.TotalComments, &count.TotalReplies)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

var _ CommentRepository = (*PostgresCommentRepo)(nil)
