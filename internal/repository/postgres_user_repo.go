package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chumenium/spotlight/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `userid, firebase_uid, username, email, iconimgpath, COALESCE(fcm_token, ''), created_at, updated_at`

// scanUser は1行分のユーザーをスキャンする。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.FirebaseUID, &user.Username, &user.Email,
		&user.IconImgPath, &user.FCMToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE userid = $1`,
		id,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByFirebaseUID はfirebase_uidでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`,
		firebaseUID,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by firebase UID: %w", err)
	}
	return user, nil
}

// UpsertByFirebaseUID はfirebase_uidをキーにユーザーを作成または更新する。
// fcmTokenが空の場合は既存値を維持する。
func (r *PostgresUserRepo) UpsertByFirebaseUID(ctx context.Context, firebaseUID, email, name, picture, fcmToken string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (firebase_uid, username, email, iconimgpath, fcm_token, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), now(), now())
		 ON CONFLICT (firebase_uid) DO UPDATE SET
		   username    = EXCLUDED.username,
		   email       = EXCLUDED.email,
		   iconimgpath = EXCLUDED.iconimgpath,
		   fcm_token   = COALESCE(NULLIF($5, ''), users.fcm_token),
		   updated_at  = now()
		 RETURNING `+userColumns,
		firebaseUID, name, email, picture, fcmToken,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return user, nil
}

// UpdateFCMTokenByFirebaseUID は指定ユーザーのFCM通知トークンを更新する。
func (r *PostgresUserRepo) UpdateFCMTokenByFirebaseUID(ctx context.Context, firebaseUID, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET fcm_token = $2, updated_at = now() WHERE firebase_uid = $1`,
		firebaseUID, token,
	)
	if err != nil {
		return fmt.Errorf("failed to update fcm token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", firebaseUID)
	}
	return nil
}

// UpdateProfile はユーザーのプロフィールを更新する。空文字列のフィールドは変更しない。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, id int, username, iconImgPath string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET
		   username    = COALESCE(NULLIF($2, ''), username),
		   iconimgpath = COALESCE(NULLIF($3, ''), iconimgpath),
		   updated_at  = now()
		 WHERE userid = $1
		 RETURNING `+userColumns,
		id, username, iconImgPath,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// SearchByUsername はusernameの部分一致でユーザーを検索する。
func (r *PostgresUserRepo) SearchByUsername(ctx context.Context, query string, limit, offset int) ([]model.User, int, error) {
	pattern := "%" + query + "%"

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username ILIKE $1`,
		pattern,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE username ILIKE $1
		 ORDER BY username, userid
		 LIMIT $2 OFFSET $3`,
		pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.FirebaseUID, &u.Username, &u.Email,
			&u.IconImgPath, &u.FCMToken, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

var _ UserRepository = (*PostgresUserRepo)(nil)
