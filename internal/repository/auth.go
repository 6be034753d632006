// Package repository provides the PostgreSQL persistence of the dev API
// server: user accounts and notes.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist or was deleted.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username taken")
)

const uniqueViolation = "23505"

// User is a stored account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Nickname     string
	Avatar       string
	Phone        string
	Bio          string
	Location     string
	Website      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileChanges holds profile fields to overwrite. Empty fields are kept.
type ProfileChanges struct {
	Nickname string
	Email    string
	Phone    string
	Bio      string
	Location string
	Website  string
	Avatar   string
}

// PostgresAuthRepository stores users in PostgreSQL.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository returns a repository over db.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, nickname, avatar, phone, bio, location, website, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nickname, &u.Avatar,
		&u.Phone, &u.Bio, &u.Location, &u.Website, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// CreateUser inserts u. A duplicate username yields ErrUsernameTaken.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, u User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, nickname) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Nickname,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

// UserByUsername looks a user up by login name.
func (r *PostgresAuthRepository) UserByUsername(ctx context.Context, username string) (User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// UserByID looks a user up by id.
func (r *PostgresAuthRepository) UserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateProfile applies ch to the user and returns the result.
func (r *PostgresAuthRepository) UpdateProfile(ctx context.Context, id uuid.UUID, ch ProfileChanges) (User, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE users SET
			nickname = COALESCE(NULLIF($2, ''), nickname),
			email = COALESCE(NULLIF($3, ''), email),
			phone = COALESCE(NULLIF($4, ''), phone),
			bio = COALESCE(NULLIF($5, ''), bio),
			location = COALESCE(NULLIF($6, ''), location),
			website = COALESCE(NULLIF($7, ''), website),
			avatar = COALESCE(NULLIF($8, ''), avatar),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, ch.Nickname, ch.Email, ch.Phone, ch.Bio, ch.Location, ch.Website, ch.Avatar,
	)
	return scanUser(row)
}
