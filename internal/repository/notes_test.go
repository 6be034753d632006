package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func setupNoteMock(t *testing.T) (*PostgresNoteRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresNoteRepository(db), mock, func() { db.Close() }
}

var noteCols = []string{"id", "user_id", "title", "content", "status", "created_at", "updated_at", "published_at"}

func TestCreateNote(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	now := time.Now().UTC()
	n := Note{ID: uuid.New(), UserID: uuid.New(), Title: "t", Content: "c", Status: "private", CreatedAt: now, UpdatedAt: now}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notes`)).
		WithArgs(n.ID, n.UserID, n.Title, n.Content, n.Status, now, now, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateNote(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNoteByID(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	id, owner := uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM notes WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(id.String(), owner.String(), "title", "body", "public", now, now, now))

	n, err := repo.NoteByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.UserID != owner || n.PublishedAt == nil || !n.PublishedAt.Equal(now) {
		t.Errorf("unexpected note: %+v", n)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM notes WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(noteCols))
	if _, err := repo.NoteByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNotesByUser(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	owner := uuid.New()
	now := time.Now().UTC()
	f := NoteFilter{Status: "draft", Search: "shop", Limit: 20, Offset: 20}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notes`)).
		WithArgs(owner, "draft", "shop").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY updated_at DESC LIMIT $4 OFFSET $5`)).
		WithArgs(owner, "draft", "shop", 20, 20).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(uuid.NewString(), owner.String(), "shopping", "", "draft", now, now, nil))

	notes, total, err := repo.NotesByUser(context.Background(), owner, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 21 || len(notes) != 1 || notes[0].PublishedAt != nil {
		t.Errorf("unexpected result: total=%d notes=%+v", total, notes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPublicNotes(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM notes WHERE status = 'public'`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM notes n JOIN users u ON u.id = n.user_id`)).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(append(noteCols, "nickname", "avatar")).
			AddRow(uuid.NewString(), uuid.NewString(), "hello", "world", "public", now, now, now, "Al", "/a.png"))

	notes, total, err := repo.PublicNotes(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(notes) != 1 || notes[0].AuthorNickname != "Al" {
		t.Errorf("unexpected result: %+v", notes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notes SET title = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateNote(context.Background(), Note{ID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDeleteNote(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notes SET deleted_at = now()`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDeleteNote(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	tests := []struct {
		name      string
		removed   int64
		count     int
		wantLiked bool
	}{
		{"like", 0, 3, true},
		{"unlike", 1, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupNoteMock(t)
			defer cleanup()

			noteID, userID := uuid.New(), uuid.New()
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM note_likes`)).
				WithArgs(noteID, userID).
				WillReturnResult(sqlmock.NewResult(0, tt.removed))
			if tt.wantLiked {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO note_likes`)).
					WithArgs(noteID, userID).
					WillReturnResult(sqlmock.NewResult(1, 1))
			}
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM note_likes`)).
				WithArgs(noteID).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))
			mock.ExpectCommit()

			liked, count, err := repo.ToggleLike(context.Background(), noteID, userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if liked != tt.wantLiked || count != tt.count {
				t.Errorf("got liked=%v count=%d", liked, count)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestToggleLike_RollbackOnError(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM note_likes`)).
		WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	if _, _, err := repo.ToggleLike(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLikeState(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	noteID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`BOOL_OR(user_id = $2)`)).
		WithArgs(noteID, uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"count", "liked"}).AddRow(4, false))

	liked, count, err := repo.LikeState(context.Background(), noteID, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liked || count != 4 {
		t.Errorf("got liked=%v count=%d", liked, count)
	}
}
