package api

import (
	"context"
	"io"
	"net/http"

	"github.com/atinyakov/puzzlenotes/internal/client/transport"
	"github.com/atinyakov/puzzlenotes/internal/models"
)

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ProfileUpdate is the body of PUT /auth/user. Empty fields are not sent.
type ProfileUpdate struct {
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Login exchanges credentials for a token. A rejected login never clears
// the stored session.
func (c *Client) Login(ctx context.Context, in Credentials) (models.LoginResult, error) {
	return transport.Do[models.LoginResult](ctx, c.t, http.MethodPost, "/auth/login", in, transport.WithoutTeardown())
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in Registration) error {
	return c.call(ctx, http.MethodPost, "/auth/register", in, transport.WithoutTeardown())
}

// User returns the caller's profile.
func (c *Client) User(ctx context.Context) (models.UserProfile, error) {
	return transport.Do[models.UserProfile](ctx, c.t, http.MethodGet, "/auth/user", nil)
}

// UpdateUser changes profile fields and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, in ProfileUpdate) (models.UserProfile, error) {
	return transport.Do[models.UserProfile](ctx, c.t, http.MethodPut, "/auth/user", in)
}

// UploadAvatar sends an avatar image.
func (c *Client) UploadAvatar(ctx context.Context, name string, content io.Reader) (models.AvatarUpload, error) {
	return transport.Do[models.AvatarUpload](ctx, c.t, http.MethodPost, "/auth/upload-avatar",
		&transport.File{Name: name, Content: content})
}

// Logout invalidates the token server side.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", nil, transport.WithoutTeardown())
}
