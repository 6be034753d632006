package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/google/uuid"
)

// ErrForbidden is returned when a user touches a note they do not own.
var ErrForbidden = errors.New("forbidden")

const (
	defaultPageSize = 20
	maxPageSize     = 100
	previewRunes    = 100
)

// NoteRepository defines the persistence operations required by NoteService.
type NoteRepository interface {
	CreateNote(ctx context.Context, n repository.Note) error
	NoteByID(ctx context.Context, id uuid.UUID) (repository.Note, error)
	NotesByUser(ctx context.Context, userID uuid.UUID, f repository.NoteFilter) ([]repository.Note, int, error)
	PublicNotes(ctx context.Context, limit, offset int) ([]repository.PublicNote, int, error)
	UpdateNote(ctx context.Context, n repository.Note) error
	SoftDeleteNote(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, noteID, userID uuid.UUID) (bool, int, error)
	LikeState(ctx context.Context, noteID, userID uuid.UUID) (bool, int, error)
}

// NoteQuery selects one page of a user's notes.
type NoteQuery struct {
	Page     int
	PageSize int
	Search   string
	Status   models.NoteStatus
}

// NoteService implements note operations with ownership checks.
type NoteService struct {
	repo NoteRepository
	now  func() time.Time
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo, now: time.Now}
}

// Create stores a new note owned by owner. Status defaults to private.
func (s *NoteService) Create(ctx context.Context, owner uuid.UUID, in models.CreateNoteInput) (models.NoteDetail, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.NoteDetail{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = models.NotePrivate
	}
	if !validStatus(status) {
		return models.NoteDetail{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	now := s.now().UTC()
	n := repository.Note{
		ID:        uuid.New(),
		UserID:    owner,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Status:    string(status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == models.NotePublic {
		n.PublishedAt = &now
	}
	if err := s.repo.CreateNote(ctx, n); err != nil {
		return models.NoteDetail{}, err
	}
	return detail(n), nil
}

// List returns one page of the owner's notes.
func (s *NoteService) List(ctx context.Context, owner uuid.UUID, q NoteQuery) (models.Page[models.NoteItem], error) {
	page, size := pagination(q.Page, q.PageSize)
	notes, total, err := s.repo.NotesByUser(ctx, owner, repository.NoteFilter{
		Status: string(q.Status),
		Search: strings.TrimSpace(q.Search),
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return models.Page[models.NoteItem]{}, err
	}

	items := make([]models.NoteItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, item(n))
	}
	return models.Page[models.NoteItem]{List: items, Total: total, Page: page, PageSize: size}, nil
}

// Get returns a note of owner.
func (s *NoteService) Get(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error) {
	n, err := s.owned(ctx, owner, id)
	if err != nil {
		return models.NoteDetail{}, err
	}
	return detail(n), nil
}

// Update applies the non-nil fields of in.
func (s *NoteService) Update(ctx context.Context, owner, id uuid.UUID, in models.UpdateNoteInput) (models.NoteDetail, error) {
	return s.modify(ctx, owner, id, func(n *repository.Note) error {
		if in.Title != nil {
			if strings.TrimSpace(*in.Title) == "" {
				return fmt.Errorf("%w: title is required", ErrInvalidInput)
			}
			n.Title = strings.TrimSpace(*in.Title)
		}
		if in.Content != nil {
			n.Content = *in.Content
		}
		if in.Status != nil {
			if !validStatus(*in.Status) {
				return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
			}
			s.setStatus(n, *in.Status)
		}
		return nil
	})
}

// Publish makes the note public.
func (s *NoteService) Publish(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error) {
	return s.modify(ctx, owner, id, func(n *repository.Note) error {
		s.setStatus(n, models.NotePublic)
		return nil
	})
}

// Draft moves the note back to drafts.
func (s *NoteService) Draft(ctx context.Context, owner, id uuid.UUID) (models.NoteDetail, error) {
	return s.modify(ctx, owner, id, func(n *repository.Note) error {
		s.setStatus(n, models.NoteDraft)
		return nil
	})
}

// AutoSave replaces the content and keeps the status.
func (s *NoteService) AutoSave(ctx context.Context, owner, id uuid.UUID, content string) (models.NoteDetail, error) {
	return s.modify(ctx, owner, id, func(n *repository.Note) error {
		n.Content = content
		return nil
	})
}

// Delete soft-deletes a note of owner.
func (s *NoteService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteNote(ctx, id)
}

// Discover returns one page of public notes.
func (s *NoteService) Discover(ctx context.Context, page, size int) (models.Page[models.PublicNoteItem], error) {
	page, size = pagination(page, size)
	notes, total, err := s.repo.PublicNotes(ctx, size, (page-1)*size)
	if err != nil {
		return models.Page[models.PublicNoteItem]{}, err
	}

	items := make([]models.PublicNoteItem, 0, len(notes))
	for _, p := range notes {
		items = append(items, models.PublicNoteItem{
			ID:             p.ID.String(),
			Title:          p.Title,
			ContentPreview: preview(p.Content),
			Author:         models.Author{ID: p.UserID.String(), Nickname: p.AuthorNickname, Avatar: p.AuthorAvatar},
			PublishedAt:    timeOrEmpty(p.PublishedAt),
			CreatedAt:      timestamp(p.CreatedAt),
		})
	}
	return models.Page[models.PublicNoteItem]{List: items, Total: total, Page: page, PageSize: size}, nil
}

// PublicNote returns a public note to any caller. Other notes are reported
// as not found.
func (s *NoteService) PublicNote(ctx context.Context, id uuid.UUID) (models.NoteDetail, error) {
	n, err := s.repo.NoteByID(ctx, id)
	if err != nil {
		return models.NoteDetail{}, err
	}
	if n.Status != string(models.NotePublic) {
		return models.NoteDetail{}, repository.ErrNotFound
	}
	return detail(n), nil
}

// ToggleLike flips the caller's like on a public note or one they own.
func (s *NoteService) ToggleLike(ctx context.Context, userID, noteID uuid.UUID) (models.LikeState, error) {
	if _, err := s.visible(ctx, userID, noteID); err != nil {
		return models.LikeState{}, err
	}
	liked, count, err := s.repo.ToggleLike(ctx, noteID, userID)
	if err != nil {
		return models.LikeState{}, err
	}
	return models.LikeState{IsLiked: liked, LikeCount: count}, nil
}

// Likes returns the like state of a note. userID may be uuid.Nil for
// anonymous callers.
func (s *NoteService) Likes(ctx context.Context, userID, noteID uuid.UUID) (models.LikeState, error) {
	if _, err := s.visible(ctx, userID, noteID); err != nil {
		return models.LikeState{}, err
	}
	liked, count, err := s.repo.LikeState(ctx, noteID, userID)
	if err != nil {
		return models.LikeState{}, err
	}
	return models.LikeState{IsLiked: liked, LikeCount: count}, nil
}

func (s *NoteService) modify(ctx context.Context, owner, id uuid.UUID, apply func(*repository.Note) error) (models.NoteDetail, error) {
	n, err := s.owned(ctx, owner, id)
	if err != nil {
		return models.NoteDetail{}, err
	}
	if err := apply(&n); err != nil {
		return models.NoteDetail{}, err
	}
	n.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateNote(ctx, n); err != nil {
		return models.NoteDetail{}, err
	}
	return detail(n), nil
}

func (s *NoteService) owned(ctx context.Context, owner, id uuid.UUID) (repository.Note, error) {
	n, err := s.repo.NoteByID(ctx, id)
	if err != nil {
		return n, err
	}
	if n.UserID != owner {
		return n, ErrForbidden
	}
	return n, nil
}

func (s *NoteService) visible(ctx context.Context, userID, id uuid.UUID) (repository.Note, error) {
	n, err := s.repo.NoteByID(ctx, id)
	if err != nil {
		return n, err
	}
	if n.Status != string(models.NotePublic) && n.UserID != userID {
		return n, repository.ErrNotFound
	}
	return n, nil
}

// setStatus stamps the first publication time.
func (s *NoteService) setStatus(n *repository.Note, status models.NoteStatus) {
	n.Status = string(status)
	if status == models.NotePublic && n.PublishedAt == nil {
		now := s.now().UTC()
		n.PublishedAt = &now
	}
}

func validStatus(s models.NoteStatus) bool {
	switch s {
	case models.NotePrivate, models.NotePublic, models.NoteDraft:
		return true
	}
	return false
}

func pagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func item(n repository.Note) models.NoteItem {
	return models.NoteItem{
		ID:             n.ID.String(),
		Title:          n.Title,
		ContentPreview: preview(n.Content),
		Status:         models.NoteStatus(n.Status),
		UpdatedAt:      timestamp(n.UpdatedAt),
		CreatedAt:      timestamp(n.CreatedAt),
	}
}

func detail(n repository.Note) models.NoteDetail {
	return models.NoteDetail{
		NoteItem:    item(n),
		Content:     n.Content,
		UserID:      n.UserID.String(),
		PublishedAt: timeOrEmpty(n.PublishedAt),
	}
}

func preview(content string) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) <= previewRunes {
		return string(r)
	}
	return string(r[:previewRunes]) + "..."
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timestamp(*t)
}
