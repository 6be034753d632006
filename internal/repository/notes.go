package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Note is a stored note.
type Note struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Content     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// PublicNote is a public note joined with its author.
type PublicNote struct {
	Note
	AuthorNickname string
	AuthorAvatar   string
}

// NoteFilter narrows a user's note list.
type NoteFilter struct {
	// Status matches exactly when set.
	Status string
	// Search matches the title case-insensitively when set.
	Search string
	Limit  int
	Offset int
}

// PostgresNoteRepository stores notes and likes in PostgreSQL.
type PostgresNoteRepository struct {
	DB *sql.DB
}

// NewPostgresNoteRepository returns a repository over db.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

const noteColumns = `id, user_id, title, content, status, created_at, updated_at, published_at`

func scanNote(row interface{ Scan(...any) error }, extra ...any) (Note, error) {
	var (
		n         Note
		published sql.NullTime
	)
	dest := append([]any{&n.ID, &n.UserID, &n.Title, &n.Content, &n.Status, &n.CreatedAt, &n.UpdatedAt, &published}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return n, ErrNotFound
		}
		return n, err
	}
	if published.Valid {
		t := published.Time
		n.PublishedAt = &t
	}
	return n, nil
}

// CreateNote inserts n.
func (r *PostgresNoteRepository) CreateNote(ctx context.Context, n Note) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, content, status, created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.UserID, n.Title, n.Content, n.Status, n.CreatedAt, n.UpdatedAt, n.PublishedAt)
	if err != nil {
		return fmt.Errorf("CreateNote: %w", err)
	}
	return nil
}

// NoteByID returns a note that is not deleted.
func (r *PostgresNoteRepository) NoteByID(ctx context.Context, id uuid.UUID) (Note, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanNote(row)
}

// NotesByUser lists a user's notes, most recently updated first, with the
// total count matching f.
func (r *PostgresNoteRepository) NotesByUser(ctx context.Context, userID uuid.UUID, f NoteFilter) ([]Note, int, error) {
	const where = `
		WHERE user_id = $1 AND deleted_at IS NULL
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR title ILIKE '%' || $3 || '%')`

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`+where, userID, f.Status, f.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("NotesByUser count: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes`+where+` ORDER BY updated_at DESC LIMIT $4 OFFSET $5`,
		userID, f.Status, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("NotesByUser: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("NotesByUser scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("NotesByUser rows: %w", err)
	}
	return notes, total, nil
}

// PublicNotes lists public notes, newest publication first.
func (r *PostgresNoteRepository) PublicNotes(ctx context.Context, limit, offset int) ([]PublicNote, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE status = 'public' AND deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("PublicNotes count: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT n.id, n.user_id, n.title, n.content, n.status, n.created_at, n.updated_at, n.published_at,
		       u.nickname, u.avatar
		  FROM notes n JOIN users u ON u.id = n.user_id
		 WHERE n.status = 'public' AND n.deleted_at IS NULL
		 ORDER BY n.published_at DESC NULLS LAST
		 LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("PublicNotes: %w", err)
	}
	defer rows.Close()

	var notes []PublicNote
	for rows.Next() {
		var p PublicNote
		n, err := scanNote(rows, &p.AuthorNickname, &p.AuthorAvatar)
		if err != nil {
			return nil, 0, fmt.Errorf("PublicNotes scan: %w", err)
		}
		p.Note = n
		notes = append(notes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("PublicNotes rows: %w", err)
	}
	return notes, total, nil
}

// UpdateNote stores the mutable fields of n.
func (r *PostgresNoteRepository) UpdateNote(ctx context.Context, n Note) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notes SET title = $2, content = $3, status = $4, updated_at = $5, published_at = $6
		 WHERE id = $1 AND deleted_at IS NULL
	`, n.ID, n.Title, n.Content, n.Status, n.UpdatedAt, n.PublishedAt)
	if err != nil {
		return fmt.Errorf("UpdateNote: %w", err)
	}
	return expectOne(res)
}

// SoftDeleteNote marks a note deleted. The cleaner purges it later.
func (r *PostgresNoteRepository) SoftDeleteNote(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notes SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("SoftDeleteNote: %w", err)
	}
	return expectOne(res)
}

// ToggleLike adds the user's like or removes it, and returns the new state.
func (r *PostgresNoteRepository) ToggleLike(ctx context.Context, noteID, userID uuid.UUID) (bool, int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("ToggleLike begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM note_likes WHERE note_id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("ToggleLike delete: %w", err)
	}
	removed, _ := res.RowsAffected()
	liked := removed == 0
	if liked {
		if _, err := tx.ExecContext(ctx, `INSERT INTO note_likes (note_id, user_id) VALUES ($1, $2)`, noteID, userID); err != nil {
			return false, 0, fmt.Errorf("ToggleLike insert: %w", err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM note_likes WHERE note_id = $1`, noteID).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("ToggleLike count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("ToggleLike commit: %w", err)
	}
	return liked, count, nil
}

// LikeState returns whether userID liked the note and its like count.
// A nil userID reports liked as false.
func (r *PostgresNoteRepository) LikeState(ctx context.Context, noteID, userID uuid.UUID) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(BOOL_OR(user_id = $2), false) FROM note_likes WHERE note_id = $1
	`, noteID, userID).Scan(&count, &liked)
	if err != nil {
		return false, 0, fmt.Errorf("LikeState: %w", err)
	}
	return liked, count, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
