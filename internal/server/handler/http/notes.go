package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/puzzlenotes/internal/middleware"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/atinyakov/puzzlenotes/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteService defines the note operations required by NoteHandler.
type NoteService interface {
	Create(ctx context.Context, owner uuid.UUID, in models.CreateNoteInput) (models.NoteDetail, error)
	List(ctx context.Context, owner uuid.UUID, q service.NoteQuery) (models.Page[models.NoteItem], error)
	Get(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error)
	Update(ctx context.Context, owner, id uuid.UUID, in models.UpdateNoteInput) (models.NoteDetail, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Publish(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error)
	Draft(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error)
	AutoSave(ctx context.Context, owner, id uuid.UUID, content string) (models.NoteDetail, error)
	Discover(ctx context.Context, page, size int) (models.Page[models.PublicNoteItem], error)
	PublicNote(ctx context.Context, id uuid.UUID) (models.NoteDetail, error)
	ToggleLike(ctx context.Context, userID, noteID uuid.UUID) (models.LikeState, error)
	Likes(ctx context.Context, userID, noteID uuid.UUID) (models.LikeState, error)
}

// NoteHandler handles note, discover and like requests.
type NoteHandler struct {
	NoteService NoteService
	Log         *zap.Logger
}

// AutoSaveRequest is the JSON payload of an autosave.
type AutoSaveRequest struct {
	Content string `json:"content"`
}

// noteID parses the {id} URL parameter. An id that is not a uuid cannot
// exist and is reported as not found.
func noteID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

// List returns one page of the caller's notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetUserIDFromContext(r.Context())
	q := r.URL.Query()
	page, err := h.NoteService.List(r.Context(), owner, service.NoteQuery{
		Page:     intParam(r, "page"),
		PageSize: intParam(r, "page_size"),
		Search:   q.Get("search"),
		Status:   models.NoteStatus(q.Get("status")),
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, page)
}

// Create stores a new note.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CreateNoteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Log, err)
		return
	}
	owner, _ := middleware.GetUserIDFromContext(r.Context())
	n, err := h.NoteService.Create(r.Context(), owner, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, n)
}

// Get returns one of the caller's notes.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, h.NoteService.Get)
}

// Update changes the fields present in the request.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateNoteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.withNote(w, r, func(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error) {
		return h.NoteService.Update(ctx, owner, id, in)
	})
}

// Delete removes one of the caller's notes.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	owner, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.NoteService.Delete(r.Context(), owner, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, nil)
}

// Publish makes a note public.
func (h *NoteHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, h.NoteService.Publish)
}

// Draft moves a note to drafts.
func (h *NoteHandler) Draft(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, h.NoteService.Draft)
}

// AutoSave stores editor content.
func (h *NoteHandler) AutoSave(w http.ResponseWriter, r *http.Request) {
	var req AutoSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.withNote(w, r, func(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error) {
		return h.NoteService.AutoSave(ctx, owner, id, req.Content)
	})
}

// Discover lists public notes.
func (h *NoteHandler) Discover(w http.ResponseWriter, r *http.Request) {
	page, err := h.NoteService.Discover(r.Context(), intParam(r, "page"), intParam(r, "page_size"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, page)
}

// DiscoverNote returns a public note.
func (h *NoteHandler) DiscoverNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	n, err := h.NoteService.PublicNote(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, n)
}

// ToggleLike flips the caller's like.
func (h *NoteHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.likes(w, r, h.NoteService.ToggleLike)
}

// Likes reports the like state. Anonymous callers are allowed.
func (h *NoteHandler) Likes(w http.ResponseWriter, r *http.Request) {
	h.likes(w, r, h.NoteService.Likes)
}

func (h *NoteHandler) likes(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, noteID uuid.UUID) (models.LikeState, error)) {
	id, err := noteID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	user, _ := middleware.GetUserIDFromContext(r.Context())
	state, err := fn(r.Context(), user, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, state)
}

func (h *NoteHandler) withNote(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error)) {
	id, err := noteID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	owner, _ := middleware.GetUserIDFromContext(r.Context())
	n, err := fn(r.Context(), owner, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeData(w, n)
}
