package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mayur-kumbar/Checkmate.io/internal/db"
)

var ErrUserNotFound = errors.New("auth: user not found")
var ErrUsernameTaken = errors.New("auth: username already taken")

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists accounts. Game state never lives here; the
// coordinator only ever sees the user ID this store hands out.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

type DBUserStore struct {
	db *db.DB
}

func NewDBUserStore(database *db.DB) *DBUserStore {
	return &DBUserStore{db: database}
}

func (s *DBUserStore) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING id, username, password_hash, created_at`,
		username, passwordHash,
	)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create user: %w", err)
	}
	return u, nil
}

func (s *DBUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users WHERE LOWER(username) = LOWER($1)`,
		username,
	)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: failed to load user: %w", err)
	}
	return u, nil
}

func (s *DBUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users WHERE id = $1`,
		id,
	)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: failed to load user: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
