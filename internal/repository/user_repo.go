package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyberacademy/internal/model"

	"github.com/lib/pq"
)

type UserRepository interface {
	// CreateUser returns ErrUsernameExists or ErrEmailExists on conflicts
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// GetUserForUpdate locks the user row for the rest of the surrounding transaction
	GetUserForUpdate(ctx context.Context, id int64) (*model.User, error)
	// UpdateUserProgress persists xp, level and badges
	UpdateUserProgress(ctx context.Context, u *model.User) error
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, xp, level, badges, created_at`

func (r *userRepo) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	row := conn(ctx, r.db).QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.XP, &u.Level, pq.Array(&u.Badges), &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}
	return &u, nil
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, full_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, xp, level, created_at
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, u.Username, u.Email, u.FullName, u.PasswordHash).
		Scan(&u.ID, &u.XP, &u.Level, &u.CreatedAt)
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "users_username_key":
			return ErrUsernameExists
		case "users_email_key":
			return ErrEmailExists
		}
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.Badges = []string{}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepo) GetUserForUpdate(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *userRepo) UpdateUserProgress(ctx context.Context, u *model.User) error {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	query := `UPDATE users SET xp = $1, level = $2, badges = $3 WHERE id = $4`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, u.XP, u.Level, pq.Array(badges), u.ID)
	if err != nil {
		return fmt.Errorf("update user %d progress: %w", u.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
