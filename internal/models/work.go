package models

// WorkStatus is the generation state of an image work.
type WorkStatus string

const (
	WorkPending    WorkStatus = "pending"
	WorkProcessing WorkStatus = "processing"
	WorkCompleted  WorkStatus = "completed"
	WorkFailed     WorkStatus = "failed"
)

// WorkParameters are the generation parameters of a work.
type WorkParameters struct {
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Steps    int     `json:"steps,omitempty"`
	Guidance float64 `json:"guidance,omitempty"`
}

// Work is a generated image work.
type Work struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	ImageURL       string          `json:"imageUrl"`
	Prompt         string          `json:"prompt"`
	NegativePrompt string          `json:"negativePrompt,omitempty"`
	Model          string          `json:"model,omitempty"`
	Parameters     *WorkParameters `json:"parameters,omitempty"`
	Status         WorkStatus      `json:"status"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// ConsumptionRecord is one charge in the consumption history.
type ConsumptionRecord struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// HistoryPage is the payload of GET /consumption/history.
type HistoryPage struct {
	List     []ConsumptionRecord `json:"list"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

// ConsumptionStats is the payload of GET /consumption/stats. The server
// defines its fields; they are kept as a loose map.
type ConsumptionStats map[string]any
