package stores

import (
	"context"
	"slices"
	"sync"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"go.uber.org/zap"
)

// ConsumptionAPI is the part of the service the consumption store uses.
type ConsumptionAPI interface {
	ConsumptionHistory(ctx context.Context, q api.HistoryQuery) (models.HistoryPage, error)
}

// Consumption mirrors a page of the caller's consumption history.
type Consumption struct {
	api ConsumptionAPI
	log *zap.Logger

	mu      sync.RWMutex
	records []models.ConsumptionRecord
	total   int
}

// NewConsumption returns an empty consumption store.
func NewConsumption(a ConsumptionAPI, log *zap.Logger) *Consumption {
	return &Consumption{api: a, log: log}
}

// FetchHistory loads a page of records. A failed fetch clears records and total.
func (c *Consumption) FetchHistory(ctx context.Context, q api.HistoryQuery) (models.HistoryPage, error) {
	page, err := c.api.ConsumptionHistory(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Error("failed to fetch consumption history", zap.Error(err))
		c.records = nil
		c.total = 0
		return page, err
	}
	c.records = slices.Clone(page.List)
	c.total = page.Total
	return page, nil
}

// Records returns a copy of the loaded records.
func (c *Consumption) Records() []models.ConsumptionRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.ConsumptionRecord(nil), c.records...)
}

// Total returns the server-side record count of the last fetch.
func (c *Consumption) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}
