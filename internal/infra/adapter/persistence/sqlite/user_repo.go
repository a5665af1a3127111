package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/repository"
)

type UserRepo struct{ db db.DBTX }

func NewUserRepo(db db.DBTX) repository.UserRepository {
	return &UserRepo{db: db}
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.role, u.created_at`

func scanUser(s rowScanner) (*entity.User, error) {
	var user entity.User
	var role string
	var created int64
	if err := s.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &created); err != nil {
		return nil, err
	}
	user.Role = entity.Role(role)
	user.CreatedAt = fromMillis(created)
	return &user, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	user, err := scanUser(repo.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := scanUser(repo.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.username = ? LIMIT 1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: QueryRowContext: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return repo.queryUsers(ctx, "List", `SELECT `+userColumns+` FROM users u ORDER BY u.username ASC`)
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (username, email, password_hash, role, created_at)
VALUES (?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, string(user.Role), toMillis(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "user", "username"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	user.ID = id
	return nil
}

func (repo *UserRepo) UpdateRole(ctx context.Context, id int64, role entity.Role) error {
	return execAffecting(ctx, repo.db, "UpdateRole", `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
}

func (repo *UserRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, repo.db, "Delete", `DELETE FROM users WHERE id = ?`, id)
}

func (repo *UserRepo) AddFollow(ctx context.Context, followerID, followedID int64) (bool, error) {
	const query = `
INSERT INTO user_follows (follower_id, followed_id, created_at)
VALUES (?, ?, ?)
ON CONFLICT (follower_id, followed_id) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, followerID, followedID, toMillis(time.Now()))
	if err != nil {
		return false, fmt.Errorf("AddFollow: %w", translateError(err, "follow"))
	}
	return rowsChanged("AddFollow", res)
}

func (repo *UserRepo) RemoveFollow(ctx context.Context, followerID, followedID int64) (bool, error) {
	const query = `DELETE FROM user_follows WHERE follower_id = ? AND followed_id = ?`
	res, err := repo.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("RemoveFollow: ExecContext: %w", err)
	}
	return rowsChanged("RemoveFollow", res)
}

func (repo *UserRepo) ListFollowing(ctx context.Context, userID int64) ([]*entity.User, error) {
	query := `
SELECT ` + userColumns + `
FROM user_follows f
JOIN users u ON u.id = f.followed_id
WHERE f.follower_id = ?
ORDER BY u.username ASC`
	return repo.queryUsers(ctx, "ListFollowing", query, userID)
}

func (repo *UserRepo) ListFollowers(ctx context.Context, userID int64) ([]*entity.User, error) {
	query := `
SELECT ` + userColumns + `
FROM user_follows f
JOIN users u ON u.id = f.follower_id
WHERE f.followed_id = ?
ORDER BY u.username ASC`
	return repo.queryUsers(ctx, "ListFollowers", query, userID)
}

func (repo *UserRepo) queryUsers(ctx context.Context, op, query string, args ...interface{}) ([]*entity.User, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*entity.User, 0, 16)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return users, nil
}
