package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/google/uuid"
)

// memNotes is an in-memory NoteRepository.
type memNotes struct {
	notes   map[uuid.UUID]repository.Note
	likes   map[uuid.UUID]map[uuid.UUID]bool
	filter  repository.NoteFilter
	updated int
}

func newMemNotes(notes ...repository.Note) *memNotes {
	m := &memNotes{notes: map[uuid.UUID]repository.Note{}, likes: map[uuid.UUID]map[uuid.UUID]bool{}}
	for _, n := range notes {
		m.notes[n.ID] = n
	}
	return m
}

func (m *memNotes) CreateNote(ctx context.Context, n repository.Note) error {
	m.notes[n.ID] = n
	return nil
}

func (m *memNotes) NoteByID(ctx context.Context, id uuid.UUID) (repository.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return n, repository.ErrNotFound
	}
	return n, nil
}

func (m *memNotes) NotesByUser(ctx context.Context, userID uuid.UUID, f repository.NoteFilter) ([]repository.Note, int, error) {
	m.filter = f
	var out []repository.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *memNotes) PublicNotes(ctx context.Context, limit, offset int) ([]repository.PublicNote, int, error) {
	var out []repository.PublicNote
	for _, n := range m.notes {
		if n.Status == "public" {
			out = append(out, repository.PublicNote{Note: n, AuthorNickname: "author"})
		}
	}
	return out, len(out), nil
}

func (m *memNotes) UpdateNote(ctx context.Context, n repository.Note) error {
	m.updated++
	m.notes[n.ID] = n
	return nil
}

func (m *memNotes) SoftDeleteNote(ctx context.Context, id uuid.UUID) error {
	delete(m.notes, id)
	return nil
}

func (m *memNotes) ToggleLike(ctx context.Context, noteID, userID uuid.UUID) (bool, int, error) {
	if m.likes[noteID] == nil {
		m.likes[noteID] = map[uuid.UUID]bool{}
	}
	liked := !m.likes[noteID][userID]
	if liked {
		m.likes[noteID][userID] = true
	} else {
		delete(m.likes[noteID], userID)
	}
	return liked, len(m.likes[noteID]), nil
}

func (m *memNotes) LikeState(ctx context.Context, noteID, userID uuid.UUID) (bool, int, error) {
	return m.likes[noteID][userID], len(m.likes[noteID]), nil
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newNoteService(repo NoteRepository) *NoteService {
	svc := NewNoteService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreate(t *testing.T) {
	repo := newMemNotes()
	svc := newNoteService(repo)
	owner := uuid.New()

	n, err := svc.Create(context.Background(), owner, models.CreateNoteInput{Title: " groceries ", Content: strings.Repeat("a", 150)})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if n.Status != models.NotePrivate || n.Title != "groceries" || n.PublishedAt != "" {
		t.Errorf("Create = %+v", n)
	}
	if len(n.ContentPreview) != 103 {
		t.Errorf("preview length = %d", len(n.ContentPreview))
	}
	if len(repo.notes) != 1 {
		t.Errorf("stored %d notes", len(repo.notes))
	}

	pub, err := svc.Create(context.Background(), owner, models.CreateNoteInput{Title: "hello", Status: models.NotePublic})
	if err != nil {
		t.Fatalf("Create public returned error: %v", err)
	}
	if pub.PublishedAt != "2024-05-01T10:00:00Z" {
		t.Errorf("published_at = %q", pub.PublishedAt)
	}
}

func TestCreate_Invalid(t *testing.T) {
	svc := newNoteService(newMemNotes())
	if _, err := svc.Create(context.Background(), uuid.New(), models.CreateNoteInput{Title: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty title error = %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.New(), models.CreateNoteInput{Title: "x", Status: "secret"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad status error = %v", err)
	}
}

func TestList_Pagination(t *testing.T) {
	owner := uuid.New()
	repo := newMemNotes(repository.Note{ID: uuid.New(), UserID: owner, Title: "a", Status: "draft"})
	svc := newNoteService(repo)

	page, err := svc.List(context.Background(), owner, NoteQuery{Page: 3, PageSize: 500, Search: " sh ", Status: models.NoteDraft})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Page != 3 || page.PageSize != maxPageSize || page.Total != 1 || len(page.List) != 1 {
		t.Errorf("List = %+v", page)
	}
	want := repository.NoteFilter{Status: "draft", Search: "sh", Limit: maxPageSize, Offset: 2 * maxPageSize}
	if repo.filter != want {
		t.Errorf("filter = %+v; want %+v", repo.filter, want)
	}

	page, _ = svc.List(context.Background(), owner, NoteQuery{})
	if page.Page != 1 || page.PageSize != defaultPageSize {
		t.Errorf("defaults = %d/%d", page.Page, page.PageSize)
	}
}

func TestOwnership(t *testing.T) {
	owner, other := uuid.New(), uuid.New()
	note := repository.Note{ID: uuid.New(), UserID: owner, Title: "mine", Status: "private"}
	repo := newMemNotes(note)
	svc := newNoteService(repo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, other, note.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get error = %v", err)
	}
	title := "stolen"
	if _, err := svc.Update(ctx, other, note.ID, models.UpdateNoteInput{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update error = %v", err)
	}
	if err := svc.Delete(ctx, other, note.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete error = %v", err)
	}
	if repo.updated != 0 || len(repo.notes) != 1 {
		t.Error("foreign user modified the note")
	}
	if _, err := svc.Get(ctx, owner, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing note error = %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	owner := uuid.New()
	note := repository.Note{ID: uuid.New(), UserID: owner, Title: "t", Content: "old", Status: "private"}
	repo := newMemNotes(note)
	svc := newNoteService(repo)
	ctx := context.Background()

	n, err := svc.Publish(ctx, owner, note.ID)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if n.Status != models.NotePublic || n.PublishedAt == "" {
		t.Errorf("Publish = %+v", n)
	}

	n, err = svc.Draft(ctx, owner, note.ID)
	if err != nil {
		t.Fatalf("Draft returned error: %v", err)
	}
	if n.Status != models.NoteDraft || n.PublishedAt == "" {
		t.Errorf("Draft = %+v", n)
	}

	n, err = svc.AutoSave(ctx, owner, note.ID, "new content")
	if err != nil {
		t.Fatalf("AutoSave returned error: %v", err)
	}
	if n.Content != "new content" || n.Status != models.NoteDraft {
		t.Errorf("AutoSave = %+v", n)
	}

	empty := ""
	if _, err := svc.Update(ctx, owner, note.ID, models.UpdateNoteInput{Title: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty title update error = %v", err)
	}
}

func TestDiscoverAndLikes(t *testing.T) {
	owner, reader := uuid.New(), uuid.New()
	pub := repository.Note{ID: uuid.New(), UserID: owner, Title: "open", Status: "public", PublishedAt: &fixedNow}
	priv := repository.Note{ID: uuid.New(), UserID: owner, Title: "closed", Status: "private"}
	svc := newNoteService(newMemNotes(pub, priv))
	ctx := context.Background()

	page, err := svc.Discover(ctx, 0, 0)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if page.Total != 1 || page.List[0].Author.Nickname != "author" || page.List[0].Author.ID != owner.String() {
		t.Errorf("Discover = %+v", page)
	}

	if _, err := svc.PublicNote(ctx, priv.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("PublicNote private error = %v", err)
	}
	if _, err := svc.ToggleLike(ctx, reader, priv.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("like private error = %v", err)
	}

	state, err := svc.ToggleLike(ctx, reader, pub.ID)
	if err != nil {
		t.Fatalf("ToggleLike returned error: %v", err)
	}
	if !state.IsLiked || state.LikeCount != 1 {
		t.Errorf("ToggleLike = %+v", state)
	}
	state, _ = svc.Likes(ctx, uuid.Nil, pub.ID)
	if state.IsLiked || state.LikeCount != 1 {
		t.Errorf("anonymous Likes = %+v", state)
	}
	state, _ = svc.ToggleLike(ctx, reader, pub.ID)
	if state.IsLiked || state.LikeCount != 0 {
		t.Errorf("unlike = %+v", state)
	}
}
