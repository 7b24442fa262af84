package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/virtual-tour/internal/model"
	"github.com/iliyamo/virtual-tour/internal/utils"
)

// UserRepo encapsulates all database queries related to users. It depends
// on a sql.DB connection which should be configured elsewhere.
type UserRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewUserRepo constructs a UserRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user with a bcrypt-hashed password and returns the
// generated id. There is no public registration route; this is used by the
// boot seed and by external provisioning.
func (r *UserRepo) Create(ctx context.Context, username, password string, isAdmin bool, bcryptCost int) (uint64, error) {
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, username, hash, isAdmin)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username match. It returns
// ErrUserNotFound when no row exists.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, password_hash, is_admin FROM users WHERE username = ?`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by primary key. It returns ErrUserNotFound when
// no row exists.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, username, password_hash, is_admin FROM users WHERE id = ?`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureAdmin seeds the default admin account. The user is created with a
// hashed password only when absent; an existing row keeps its password.
// The admin flag is re-asserted on every call regardless of prior state.
func (r *UserRepo) EnsureAdmin(ctx context.Context, username, password string, bcryptCost int) error {
	_, err := r.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		if _, err := r.Create(ctx, username, password, true, bcryptCost); err != nil {
			return err
		}
		return nil
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE users SET is_admin = 1 WHERE username = ?`, username)
	return err
}
