package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/models"
)

// UploadMemoryImage uploads the image of a memory moment.
func (c *Client) UploadMemoryImage(ctx context.Context, name string, content io.Reader) (models.UploadedImage, error) {
	return transport.Do[models.UploadedImage](ctx, c.t, http.MethodPost, "/memories/upload-image",
		&transport.File{Name: name, Content: content})
}

// CreateMemory shares a memory moment.
func (c *Client) CreateMemory(ctx context.Context, in models.CreateMemoryInput) (models.MemoryMoment, error) {
	return transport.Do[models.MemoryMoment](ctx, c.t, http.MethodPost, "/memories", in)
}

// Memories lists memory moments.
func (c *Client) Memories(ctx context.Context, q PageQuery) (models.Page[models.MemoryMoment], error) {
	return transport.Do[models.Page[models.MemoryMoment]](ctx, c.t, http.MethodGet, "/memories", nil,
		transport.WithQuery(q.values()))
}

// ToggleMemoryLike likes or unlikes a memory moment.
func (c *Client) ToggleMemoryLike(ctx context.Context, id string) (models.LikeState, error) {
	return transport.Do[models.LikeState](ctx, c.t, http.MethodPost, "/memories/"+url.PathEscape(id)+"/like", nil)
}
