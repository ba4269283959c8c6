package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chumenium/spotlight/internal/model"
)

// PostgresNotificationRepo はPostgreSQLを使用した通知リポジトリ。
type PostgresNotificationRepo struct {
	db *sql.DB
}

// NewPostgresNotificationRepo はPostgresNotificationRepoを生成する。
func NewPostgresNotificationRepo(db *sql.DB) *PostgresNotificationRepo {
	return &PostgresNotificationRepo{db: db}
}

// Create は新規通知を作成する。
func (r *PostgresNotificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	created := *n
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO notification (userid, actorid, contentid, commentid, type, isread, createdat)
		 VALUES ($1, $2, $3, $4, $5, false, now())
		 RETURNING notificationid, isread, createdat`,
		n.UserID, n.ActorID, n.ContentID, n.CommentID, n.Type,
	).Scan(&created.ID, &created.IsRead, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	return &created, nil
}

// ListByUserID はユーザー宛の通知を新しい順に取得する。
func (r *PostgresNotificationRepo) ListByUserID(ctx context.Context, userID, limit, offset int) ([]model.NotificationWithActor, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notification WHERE userid = $1`,
		userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT n.notificationid, n.userid, n.actorid, n.contentid, n.commentid,
		        n.type, n.isread, n.createdat,
		        u.username, u.iconimgpath
		 FROM notification n
		 JOIN users u ON n.actorid = u.userid
		 WHERE n.userid = $1
		 ORDER BY n.createdat DESC, n.notificationid DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []model.NotificationWithActor{}
	for rows.Next() {
		var n model.NotificationWithActor
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.ActorID, &n.ContentID, &n.CommentID,
			&n.Type, &n.IsRead, &n.CreatedAt,
			&n.ActorName, &n.ActorIconImg,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead は通知を既読にする。宛先ユーザーのみが対象。
// 通知が存在しないか他人宛の場合はfalseを返す。
func (r *PostgresNotificationRepo) MarkRead(ctx context.Context, id, userID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notification SET isread = true WHERE notificationid = $1 AND userid = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

var _ NotificationRepository = (*PostgresNotificationRepo)(nil)
