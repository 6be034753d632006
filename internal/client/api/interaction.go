package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/models"
)

func notePath(id, suffix string) string {
	return "/notes/" + url.PathEscape(id) + suffix
}

// ToggleLike likes or unlikes a note.
func (c *Client) ToggleLike(ctx context.Context, noteID string) (models.LikeState, error) {
	return transport.Do[models.LikeState](ctx, c.t, http.MethodPost, notePath(noteID, "/like"), nil)
}

// Likes returns the like state of a note.
func (c *Client) Likes(ctx context.Context, noteID string) (models.LikeState, error) {
	return transport.Do[models.LikeState](ctx, c.t, http.MethodGet, notePath(noteID, "/likes"), nil)
}

// ToggleFavorite adds or removes a note from the caller's favorites.
func (c *Client) ToggleFavorite(ctx context.Context, noteID string) (models.FavoriteState, error) {
	return transport.Do[models.FavoriteState](ctx, c.t, http.MethodPost, notePath(noteID, "/favorite"), nil)
}

// Favorites returns the favorite state of a note.
func (c *Client) Favorites(ctx context.Context, noteID string) (models.FavoriteState, error) {
	return transport.Do[models.FavoriteState](ctx, c.t, http.MethodGet, notePath(noteID, "/favorites"), nil)
}

// UserFavorites lists the caller's favorite notes.
func (c *Client) UserFavorites(ctx context.Context, q PageQuery) (models.Page[models.FavoriteItem], error) {
	return transport.Do[models.Page[models.FavoriteItem]](ctx, c.t, http.MethodGet, "/user/favorites", nil,
		transport.WithQuery(q.values()))
}

// CreateComment comments on a note, or replies when ParentID is set.
func (c *Client) CreateComment(ctx context.Context, noteID string, in models.CreateCommentInput) (models.Comment, error) {
	return transport.Do[models.Comment](ctx, c.t, http.MethodPost, notePath(noteID, "/comments"), in)
}

// Comments lists the comments of a note.
func (c *Client) Comments(ctx context.Context, noteID string) (models.CommentList, error) {
	return transport.Do[models.CommentList](ctx, c.t, http.MethodGet, notePath(noteID, "/comments"), nil)
}

// DeleteComment deletes one of the caller's comments.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.call(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil)
}
