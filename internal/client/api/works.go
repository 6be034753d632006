package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/models"
)

// Works lists the caller's works. The endpoint returns a bare array.
func (c *Client) Works(ctx context.Context, q PageQuery) ([]models.Work, error) {
	return transport.Do[[]models.Work](ctx, c.t, http.MethodGet, "/works", nil, transport.WithQuery(q.values()))
}

// Work returns one work.
func (c *Client) Work(ctx context.Context, id string) (models.Work, error) {
	return transport.Do[models.Work](ctx, c.t, http.MethodGet, "/works/"+url.PathEscape(id), nil)
}

// CreateWork creates a work.
func (c *Client) CreateWork(ctx context.Context, in models.Work) (models.Work, error) {
	return transport.Do[models.Work](ctx, c.t, http.MethodPost, "/works", in)
}

// UpdateWork changes a work.
func (c *Client) UpdateWork(ctx context.Context, id string, in models.Work) (models.Work, error) {
	return transport.Do[models.Work](ctx, c.t, http.MethodPut, "/works/"+url.PathEscape(id), in)
}

// DeleteWork deletes a work.
func (c *Client) DeleteWork(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/works/"+url.PathEscape(id), nil)
}
