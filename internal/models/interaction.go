package models

// LikeState is the like counter of a note or memory and whether the caller liked it.
type LikeState struct {
	IsLiked   bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// FavoriteState is the favorite counter of a note and whether the caller favorited it.
type FavoriteState struct {
	IsFavorited   bool `json:"is_favorited"`
	FavoriteCount int  `json:"favorite_count"`
}

// FavoriteItem is an entry of the caller's favorites list.
type FavoriteItem struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ContentPreview string `json:"content_preview,omitempty"`
	Author         Author `json:"author"`
	PublishedAt    string `json:"published_at"`
	CreatedAt      string `json:"created_at"`
	FavoritedAt    string `json:"favorited_at"`
}

// Comment is a note comment with its nested replies.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	NoteID    string    `json:"note_id"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"created_at"`
	Author    Author    `json:"author"`
	Replies   []Comment `json:"replies"`
}

// CommentList is the payload of GET /notes/{id}/comments.
type CommentList struct {
	List  []Comment `json:"list"`
	Total int       `json:"total"`
}

// CreateCommentInput is the body of POST /notes/{id}/comments.
type CreateCommentInput struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// MemoryMoment is a shared image with a short description.
type MemoryMoment struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	Author      Author `json:"author"`
	LikeCount   int    `json:"like_count"`
	IsLiked     bool   `json:"is_liked"`
}

// CreateMemoryInput is the body of POST /memories.
type CreateMemoryInput struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
}

// UploadedImage is the payload of POST /memories/upload-image.
type UploadedImage struct {
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}
