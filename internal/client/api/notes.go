package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/models"
)

// NoteQuery filters the owner's note list.
type NoteQuery struct {
	PageQuery
	Search string
	Status models.NoteStatus
}

func (q NoteQuery) values() url.Values {
	v := q.PageQuery.values()
	v.Set("search", q.Search)
	v.Set("status", string(q.Status))
	return v
}

// Notes lists the caller's notes.
func (c *Client) Notes(ctx context.Context, q NoteQuery) (models.Page[models.NoteItem], error) {
	return transport.Do[models.Page[models.NoteItem]](ctx, c.t, http.MethodGet, "/notes", nil,
		transport.WithQuery(q.values()))
}

// Note returns one of the caller's notes.
func (c *Client) Note(ctx context.Context, id string) (models.NoteDetail, error) {
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodGet, "/notes/"+url.PathEscape(id), nil)
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, in models.CreateNoteInput) (models.NoteDetail, error) {
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodPost, "/notes", in)
}

// UpdateNote changes a note.
func (c *Client) UpdateNote(ctx context.Context, id string, in models.UpdateNoteInput) (models.NoteDetail, error) {
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodPut, "/notes/"+url.PathEscape(id), in)
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil)
}

// PublishNote makes a note public.
func (c *Client) PublishNote(ctx context.Context, id string) (models.NoteDetail, error) {
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodPut, "/notes/"+url.PathEscape(id)+"/publish", nil)
}

// DraftNote moves a note back to drafts.
func (c *Client) DraftNote(ctx context.Context, id string) (models.NoteDetail, error) {
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodPut, "/notes/"+url.PathEscape(id)+"/draft", nil)
}

// AutoSaveNote stores the editor content without changing the status.
func (c *Client) AutoSaveNote(ctx context.Context, id, content string) (models.NoteDetail, error) {
	body := struct {
		Content string `json:"content"`
	}{content}
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodPut, "/notes/"+url.PathEscape(id)+"/autosave", body)
}

// Discover lists public notes.
func (c *Client) Discover(ctx context.Context, q PageQuery) (models.Page[models.PublicNoteItem], error) {
	return transport.Do[models.Page[models.PublicNoteItem]](ctx, c.t, http.MethodGet, "/discover", nil,
		transport.WithQuery(q.values()))
}

// DiscoverNote returns a public note.
func (c *Client) DiscoverNote(ctx context.Context, id string) (models.NoteDetail, error) {
	return transport.Do[models.NoteDetail](ctx, c.t, http.MethodGet, "/discover/"+url.PathEscape(id), nil)
}

// UserNotes lists the public notes of a user.
func (c *Client) UserNotes(ctx context.Context, userID string, q PageQuery) (models.Page[models.PublicNoteItem], error) {
	return transport.Do[models.Page[models.PublicNoteItem]](ctx, c.t, http.MethodGet,
		"/users/"+url.PathEscape(userID)+"/notes", nil, transport.WithQuery(q.values()))
}
