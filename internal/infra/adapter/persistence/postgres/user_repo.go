package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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
	if err := s.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = entity.Role(role)
	return &user, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 LIMIT 1`
	user, err := scanUser(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1 LIMIT 1`
	user, err := scanUser(repo.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: QueryRowContext: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u ORDER BY u.username ASC`
	return repo.queryUsers(ctx, "List", query)
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (username, email, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "user", "username"))
	}
	return nil
}

func (repo *UserRepo) UpdateRole(ctx context.Context, id int64, role entity.Role) error {
	const query = `UPDATE users SET role = $1 WHERE id = $2`
	return repo.execAffecting(ctx, "UpdateRole", query, string(role), id)
}

func (repo *UserRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	return repo.execAffecting(ctx, "Delete", query, id)
}

func (repo *UserRepo) AddFollow(ctx context.Context, followerID, followedID int64) (bool, error) {
	const query = `
INSERT INTO user_follows (follower_id, followed_id)
VALUES ($1, $2)
ON CONFLICT (follower_id, followed_id) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("AddFollow: %w", translateError(err, "follow"))
	}
	return rowsChanged("AddFollow", res)
}

func (repo *UserRepo) RemoveFollow(ctx context.Context, followerID, followedID int64) (bool, error) {
	const query = `DELETE FROM user_follows WHERE follower_id = $1 AND followed_id = $2`
	res, err := repo.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("RemoveFollow: ExecContext: %w", err)
	}
	return rowsChanged("RemoveFollow", res)
}

func rowsChanged(op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	return n > 0, nil
}

func (repo *UserRepo) ListFollowing(ctx context.Context, userID int64) ([]*entity.User, error) {
	query := `
SELECT ` + userColumns + `
FROM user_follows f
JOIN users u ON u.id = f.followed_id
WHERE f.follower_id = $1
ORDER BY u.username ASC`
	return repo.queryUsers(ctx, "ListFollowing", query, userID)
}

func (repo *UserRepo) ListFollowers(ctx context.Context, userID int64) ([]*entity.User, error) {
	query := `
SELECT ` + userColumns + `
FROM user_follows f
JOIN users u ON u.id = f.follower_id
WHERE f.followed_id = $1
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

func (repo *UserRepo) execAffecting(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: ExecContext: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}
