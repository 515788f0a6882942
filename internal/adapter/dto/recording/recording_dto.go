package recording

import "encoding/json"

// ActionResponse is one extracted action item of a recording
type ActionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	DueDate     string `json:"due_date,omitempty"`
	IsCompleted bool   `json:"is_completed"`
}

// RecordingResponse is the wire representation of one analyzed recording
type RecordingResponse struct {
	ID           string           `json:"id"`
	Date         string           `json:"date"`
	Duration     int              `json:"duration"`
	Title        string           `json:"title"`
	Participants string           `json:"participants,omitempty"`
	Context      string           `json:"context,omitempty"`
	Summary      string           `json:"summary,omitempty"`
	Transcript   string           `json:"transcript,omitempty"`
	Analysis     json.RawMessage  `json:"analysis,omitempty"`
	Category     string           `json:"category,omitempty"`
	Sentiment    string           `json:"sentiment,omitempty"`
	AudioURL     string           `json:"audio_url,omitempty"`
	Actions      []ActionResponse `json:"actions"`
}

// ListResponse wraps the recordings list endpoint payload
type ListResponse struct {
	Recordings []RecordingResponse `json:"recordings"`
}

// AttachmentPayload is the client-provided metadata for one attachment,
// sent as a JSON array alongside the audio upload
type AttachmentPayload struct {
	ID        string `json:"id"`
	Type      string `json:"type" validate:"required,attachmentkind"`
	Content   string `json:"content" validate:"required"`
	Timestamp string `json:"timestamp"`
}
