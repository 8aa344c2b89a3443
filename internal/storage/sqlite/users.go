package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Oxyrus/photowall/internal/storage"
)

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) Create(ctx context.Context, input storage.UserCreate) (storage.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return storage.User{}, fmt.Errorf("%w: email must not be empty", storage.ErrInvalid)
	}
	if input.PasswordHash == "" {
		return storage.User{}, fmt.Errorf("%w: password hash must not be empty", storage.ErrInvalid)
	}

	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?)`,
		email,
		input.PasswordHash,
		input.Admin,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.User{}, fmt.Errorf("%w: email already registered", storage.ErrConflict)
		}
		return storage.User{}, fmt.Errorf("sqlite: create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storage.User{}, fmt.Errorf("sqlite: create user: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (storage.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, is_admin, created_at
		FROM users
		WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (storage.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, is_admin, created_at
		FROM users
		WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

type userScanner interface {
	Scan(dest ...any) error
}

func scanUser(s userScanner) (storage.User, error) {
	var (
		user         storage.User
		createdAtRaw time.Time
	)

	err := s.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Admin,
		&createdAtRaw,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("sqlite: scan user: %w", err)
	}

	user.CreatedAt = createdAtRaw.UTC()

	return user, nil
}
