// Package stores keeps client-side snapshots of server lists. Every
// mutation is a re-fetch or a merge of a record the server returned.
package stores

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"go.uber.org/zap"
)

// FilterAll disables status filtering.
const FilterAll models.NoteStatus = ""

const defaultNotesPageSize = 20

// NotesAPI is the part of the service the notes store uses.
type NotesAPI interface {
	Notes(ctx context.Context, q api.NoteQuery) (models.Page[models.NoteItem], error)
	Note(ctx context.Context, id string) (models.NoteDetail, error)
	CreateNote(ctx context.Context, in models.CreateNoteInput) (models.NoteDetail, error)
	UpdateNote(ctx context.Context, id string, in models.UpdateNoteInput) (models.NoteDetail, error)
	DeleteNote(ctx context.Context, id string) error
	PublishNote(ctx context.Context, id string) (models.NoteDetail, error)
	DraftNote(ctx context.Context, id string) (models.NoteDetail, error)
	AutoSaveNote(ctx context.Context, id, content string) (models.NoteDetail, error)
}

// Notes mirrors the caller's note list and the note being edited.
type Notes struct {
	api NotesAPI
	log *zap.Logger

	mu       sync.RWMutex
	list     []models.NoteItem
	current  *models.NoteDetail
	total    int
	page     int
	pageSize int
	search   string
	filter   models.NoteStatus
}

// NewNotes returns an empty notes store.
func NewNotes(a NotesAPI, log *zap.Logger) *Notes {
	return &Notes{api: a, log: log, page: 1, pageSize: defaultNotesPageSize}
}

// Fetch loads a page of notes. Zero fields of q fall back to the store's
// page, page size, search keyword and filter. A failed fetch clears the list.
func (n *Notes) Fetch(ctx context.Context, q api.NoteQuery) (models.Page[models.NoteItem], error) {
	n.mu.RLock()
	if q.Page == 0 {
		q.Page = n.page
	}
	if q.PageSize == 0 {
		q.PageSize = n.pageSize
	}
	if q.Search == "" {
		q.Search = n.search
	}
	if q.Status == FilterAll {
		q.Status = n.filter
	}
	n.mu.RUnlock()

	page, err := n.api.Notes(ctx, q)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.log.Error("failed to fetch notes", zap.Error(err))
		n.list = nil
		n.total = 0
		return page, err
	}
	n.list = slices.Clone(page.List)
	n.total = page.Total
	if page.Page > 0 {
		n.page = page.Page
	}
	if page.PageSize > 0 {
		n.pageSize = page.PageSize
	}
	return page, nil
}

// FetchByID loads a note and makes it current.
func (n *Notes) FetchByID(ctx context.Context, id string) (models.NoteDetail, error) {
	d, err := n.api.Note(ctx, id)
	if err != nil {
		n.log.Error("failed to fetch note", zap.String("id", id), zap.Error(err))
		return d, err
	}
	n.mu.Lock()
	n.current = &d
	n.mu.Unlock()
	return d, nil
}

// Add creates a note, reloads the list and makes the new note current.
func (n *Notes) Add(ctx context.Context, in models.CreateNoteInput) (models.NoteDetail, error) {
	d, err := n.api.CreateNote(ctx, in)
	if err != nil {
		n.log.Error("failed to create note", zap.Error(err))
		return d, err
	}
	if _, err := n.Fetch(ctx, api.NoteQuery{}); err != nil {
		return d, err
	}
	n.mu.Lock()
	n.current = &d
	n.mu.Unlock()
	return d, nil
}

// Update changes a note and merges the result into the list.
func (n *Notes) Update(ctx context.Context, id string, in models.UpdateNoteInput) (models.NoteDetail, error) {
	d, err := n.api.UpdateNote(ctx, id, in)
	if err != nil {
		n.log.Error("failed to update note", zap.String("id", id), zap.Error(err))
		return d, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.merge(id, d)
	return d, nil
}

// Remove deletes a note.
func (n *Notes) Remove(ctx context.Context, id string) error {
	if err := n.api.DeleteNote(ctx, id); err != nil {
		n.log.Error("failed to delete note", zap.String("id", id), zap.Error(err))
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	kept := make([]models.NoteItem, 0, len(n.list))
	for _, it := range n.list {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	n.list = kept
	if n.current != nil && n.current.ID == id {
		n.current = nil
	}
	return nil
}

// Publish makes a note public.
func (n *Notes) Publish(ctx context.Context, id string) (models.NoteDetail, error) {
	return n.transition(ctx, id, "publish", n.api.PublishNote)
}

// SaveAsDraft moves a note back to drafts.
func (n *Notes) SaveAsDraft(ctx context.Context, id string) (models.NoteDetail, error) {
	return n.transition(ctx, id, "draft", n.api.DraftNote)
}

func (n *Notes) transition(ctx context.Context, id, op string, call func(context.Context, string) (models.NoteDetail, error)) (models.NoteDetail, error) {
	d, err := call(ctx, id)
	if err != nil {
		n.log.Error("failed to "+op+" note", zap.String("id", id), zap.Error(err))
		return d, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.merge(id, d)
	return d, nil
}

// AutoSave stores editor content. Failures are logged and returned but
// leave local state as it was.
func (n *Notes) AutoSave(ctx context.Context, id, content string) (models.NoteDetail, error) {
	d, err := n.api.AutoSaveNote(ctx, id, content)
	if err != nil {
		n.log.Warn("autosave failed", zap.String("id", id), zap.Error(err))
		return d, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current.Content = d.Content
		if d.UpdatedAt != "" {
			n.current.UpdatedAt = d.UpdatedAt
		}
	}
	return d, nil
}

// merge must be called with mu held.
func (n *Notes) merge(id string, d models.NoteDetail) {
	if n.current != nil && n.current.ID == id {
		cur := d
		n.current = &cur
	}
	for i := range n.list {
		if n.list[i].ID == id {
			n.list[i] = mergeItem(n.list[i], d.NoteItem)
			return
		}
	}
}

// mergeItem overlays the non-empty fields of src on dst.
func mergeItem(dst, src models.NoteItem) models.NoteItem {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.ContentPreview != "" {
		dst.ContentPreview = src.ContentPreview
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.UpdatedAt != "" {
		dst.UpdatedAt = src.UpdatedAt
	}
	if src.CreatedAt != "" {
		dst.CreatedAt = src.CreatedAt
	}
	return dst
}

// Filtered returns the list narrowed by the current filter and a
// case-insensitive title search.
func (n *Notes) Filtered() []models.NoteItem {
	n.mu.RLock()
	defer n.mu.RUnlock()
	keyword := strings.ToLower(strings.TrimSpace(n.search))
	out := make([]models.NoteItem, 0, len(n.list))
	for _, it := range n.list {
		if n.filter != FilterAll && it.Status != n.filter {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(it.Title), keyword) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SetSearch sets the title keyword.
func (n *Notes) SetSearch(keyword string) {
	n.mu.Lock()
	n.search = keyword
	n.mu.Unlock()
}

// SetFilter sets the status filter; FilterAll disables it.
func (n *Notes) SetFilter(status models.NoteStatus) {
	n.mu.Lock()
	n.filter = status
	n.mu.Unlock()
}

// List returns a copy of the loaded page.
func (n *Notes) List() []models.NoteItem {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]models.NoteItem(nil), n.list...)
}

// Total returns the server-side record count of the last fetch.
func (n *Notes) Total() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.total
}

// Current returns the note being edited.
func (n *Notes) Current() (models.NoteDetail, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.current == nil {
		return models.NoteDetail{}, false
	}
	return *n.current, true
}

// ClearCurrent forgets the note being edited.
func (n *Notes) ClearCurrent() {
	n.mu.Lock()
	n.current = nil
	n.mu.Unlock()
}

// Reset returns the store to its initial state.
func (n *Notes) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = nil
	n.current = nil
	n.total = 0
	n.page = 1
	n.pageSize = defaultNotesPageSize
	n.search = ""
	n.filter = FilterAll
}
