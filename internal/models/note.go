package models

// NoteStatus is the visibility of a note.
type NoteStatus string

const (
	// NotePrivate is visible to the owner only.
	NotePrivate NoteStatus = "private"
	// NotePublic is listed on the discover feed.
	NotePublic NoteStatus = "public"
	// NoteDraft is a previously public note moved back to drafts.
	NoteDraft NoteStatus = "draft"
)

// NoteItem is a note as shown in the owner's list.
type NoteItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	ContentPreview string     `json:"content_preview,omitempty"`
	Status         NoteStatus `json:"status"`
	UpdatedAt      string     `json:"updated_at"`
	CreatedAt      string     `json:"created_at"`
}

// NoteDetail is the full note.
type NoteDetail struct {
	NoteItem
	Content     string `json:"content"`
	UserID      string `json:"user_id"`
	PublishedAt string `json:"published_at,omitempty"`
}

// CreateNoteInput is the body of POST /notes.
type CreateNoteInput struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Status  NoteStatus `json:"status,omitempty"`
}

// UpdateNoteInput is the body of PUT /notes/{id}. Nil fields are left unchanged.
type UpdateNoteInput struct {
	Title   *string     `json:"title,omitempty"`
	Content *string     `json:"content,omitempty"`
	Status  *NoteStatus `json:"status,omitempty"`
}

// PublicNoteItem is a note on the discover feed.
type PublicNoteItem struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ContentPreview string `json:"content_preview"`
	Author         Author `json:"author"`
	PublishedAt    string `json:"published_at"`
	CreatedAt      string `json:"created_at"`
}
