package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/models"
)

// HistoryQuery selects a page of the consumption history. Dates are
// YYYY-MM-DD and optional.
type HistoryQuery struct {
	PageQuery
	StartDate string
	EndDate   string
}

func (q HistoryQuery) values() url.Values {
	v := q.PageQuery.values()
	v.Set("start_date", q.StartDate)
	v.Set("end_date", q.EndDate)
	return v
}

// ConsumptionHistory lists the caller's charges.
func (c *Client) ConsumptionHistory(ctx context.Context, q HistoryQuery) (models.HistoryPage, error) {
	return transport.Do[models.HistoryPage](ctx, c.t, http.MethodGet, "/consumption/history", nil,
		transport.WithQuery(q.values()))
}

// ConsumptionStats returns the caller's spending summary.
func (c *Client) ConsumptionStats(ctx context.Context) (models.ConsumptionStats, error) {
	return transport.Do[models.ConsumptionStats](ctx, c.t, http.MethodGet, "/consumption/stats", nil)
}
