// Package store provides the persistence layer: users and tasks over
// sqlx/SQLite. Every operation is a single atomic statement executed under a
// bounded timeout; concurrency control is delegated entirely to the database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"task-service/models"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// UserStore persists user records and enforces email uniqueness.
type UserStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewUserStore(db *sqlx.DB, timeout time.Duration) *UserStore {
	return &UserStore{db: db, timeout: timeout}
}

// Create inserts a user with an already-hashed password and returns the
// stored record. A unique-constraint hit on email maps to ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	createdAt := time.Now()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password, created_at) VALUES (?, ?, ?, ?)",
		name, email, passwordHash, createdAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, mapError(ctx, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return &models.User{
		ID:        int(id),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: createdAt,
	}, nil
}

// GetByEmail fetches a user, hash included, for credential verification.
// The lookup is case-sensitive, matching the stored email exactly.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, name, email, password, created_at FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return &user, nil
}

// mapError converts a timed-out statement into ErrUnavailable and passes
// everything else through.
func mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrUnavailable
	}
	return err
}
