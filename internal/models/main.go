// Package models defines the records exchanged with the notes API:
// the response envelope, user profiles and the domain snapshots the
// client stores mirror.
package models

import "encoding/json"

// CodeOK is the envelope code that signals success.
const CodeOK = 200

// Envelope wraps every server response.
type Envelope struct {
	// Code is the application status; nil means the body was not an envelope.
	Code *int `json:"code,omitempty"`
	// Message is a user-facing description, set on errors.
	Message string `json:"message"`
	// Data carries the payload when present.
	Data json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the envelope carries a non-null payload.
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Page is the paginated list shape returned by list endpoints.
type Page[T any] struct {
	// List holds the records of the current page in server order.
	List []T `json:"list"`
	// Total is the number of records across all pages.
	Total int `json:"total"`
	// Page is the 1-based page index.
	Page int `json:"page"`
	// PageSize is the number of records per page.
	PageSize int `json:"page_size"`
}

// UserProfile is the authenticated user's profile.
type UserProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token    string      `json:"token"`
	UserInfo UserProfile `json:"userInfo"`
}

// AvatarUpload is the payload of an avatar upload.
type AvatarUpload struct {
	Avatar string `json:"avatar"`
	URL    string `json:"url,omitempty"`
}

// Author is the public identity attached to notes, comments and memories.
type Author struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
}
