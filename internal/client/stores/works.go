package stores

import (
	"context"
	"sync"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"go.uber.org/zap"
)

// WorksAPI is the part of the service the works store uses.
type WorksAPI interface {
	Works(ctx context.Context, q api.PageQuery) ([]models.Work, error)
	CreateWork(ctx context.Context, in models.Work) (models.Work, error)
	DeleteWork(ctx context.Context, id string) error
}

// Works mirrors the caller's image works, newest first.
type Works struct {
	api WorksAPI
	log *zap.Logger

	mu    sync.RWMutex
	works []models.Work
}

// NewWorks returns an empty works store.
func NewWorks(a WorksAPI, log *zap.Logger) *Works {
	return &Works{api: a, log: log}
}

// Fetch loads a page of works. A failed fetch clears the list.
func (w *Works) Fetch(ctx context.Context, page, pageSize int) ([]models.Work, error) {
	works, err := w.api.Works(ctx, api.PageQuery{Page: page, PageSize: pageSize})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.log.Error("failed to fetch works", zap.Error(err))
		w.works = nil
		return nil, err
	}
	w.works = works
	return works, nil
}

// Add creates a work and puts it at the top of the list.
func (w *Works) Add(ctx context.Context, in models.Work) (models.Work, error) {
	created, err := w.api.CreateWork(ctx, in)
	if err != nil {
		w.log.Error("failed to create work", zap.Error(err))
		return created, err
	}
	w.mu.Lock()
	w.works = append([]models.Work{created}, w.works...)
	w.mu.Unlock()
	return created, nil
}

// Remove deletes a work.
func (w *Works) Remove(ctx context.Context, id string) error {
	if err := w.api.DeleteWork(ctx, id); err != nil {
		w.log.Error("failed to delete work", zap.String("id", id), zap.Error(err))
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := make([]models.Work, 0, len(w.works))
	for _, it := range w.works {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	w.works = kept
	return nil
}

// List returns a copy of the loaded works.
func (w *Works) List() []models.Work {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Work(nil), w.works...)
}
