// Package api binds the notes service endpoints to typed calls over the
// transport client.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
)

// Client exposes the service endpoints.
type Client struct {
	t *transport.Client
}

// New returns a Client sending through t.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// PageQuery selects a page of a list endpoint. Zero fields are omitted.
type PageQuery struct {
	Page     int
	PageSize int
}

func (q PageQuery) values() url.Values {
	return url.Values{
		"page":      {itoa(q.Page)},
		"page_size": {itoa(q.PageSize)},
	}
}

func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// call sends a request whose payload the caller does not need.
func (c *Client) call(ctx context.Context, method, path string, body any, opts ...transport.RequestOption) error {
	_, err := c.t.Send(ctx, method, path, body, opts...)
	return err
}
