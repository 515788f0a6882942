package entities

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is the client-side mirror of a processed recording. The
// whole collection is cached locally as a single blob and refreshed from the
// server on load.
type AnalysisRecord struct {
	ID               string           `json:"id,omitempty"`
	Date             string           `json:"date,omitempty"`
	Duration         int              `json:"duration,omitempty"`
	AudioPath        string           `json:"audioPath,omitempty"`
	AudioSize        int64            `json:"audioSize,omitempty"`
	Transcript       string           `json:"transcript,omitempty"`
	ExecutiveSummary ExecutiveSummary `json:"executive_summary"`
	KeyPoints        []KeyPoint       `json:"key_points"`
	MermaidDiagram   string           `json:"mermaid_diagram"`
	Actions          []ActionItem     `json:"actions"`
	CalendarEvents   []CalendarEvent  `json:"calendar_events,omitempty"`
	Metadata         Metadata         `json:"metadata"`
	Attachments      []Attachment     `json:"attachments,omitempty"`
}

// EventKind distinguishes reminders from calendar events
type EventKind string

const (
	EventKindReminder EventKind = "reminder"
	EventKindEvent    EventKind = "event"
)

// EventStatus is the lifecycle status of a calendar event. The zero value
// means pending (the user has not acted on it yet).
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusAdded     EventStatus = "added"
)

// CalendarEvent is an event or reminder extracted from a recording, embedded
// in its parent record's event list. Upstream extraction does not assign
// stable identifiers, so a synthetic uuid is attached at creation time; the
// (title, start_date) pair remains the fallback identity for data that
// predates the synthetic id.
type CalendarEvent struct {
	ID             string      `json:"id,omitempty"`
	Kind           EventKind   `json:"type"`
	Title          string      `json:"title"`
	StartDate      string      `json:"start_date"` // ISO format
	EndDate        string      `json:"end_date"`   // ISO format
	Description    string      `json:"description"`
	Location       string      `json:"location,omitempty"`
	Status         EventStatus `json:"status,omitempty"`
	NotificationID *int        `json:"notificationId,omitempty"`
}

// NewCalendarEvent creates an event with a synthetic id assigned
func NewCalendarEvent(kind EventKind, title, startDate string) CalendarEvent {
	return CalendarEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		StartDate: startDate,
	}
}

// IsScheduled reports whether the user has already confirmed this event
func (e *CalendarEvent) IsScheduled() bool {
	return e.Status == EventStatusScheduled || e.Status == EventStatusAdded
}

// MatchesContent reports content-equality on the (title, start_date) pair
func (e *CalendarEvent) MatchesContent(title, startDate string) bool {
	return e.Title == title && e.StartDate == startDate
}

// MarkScheduled records a successful dispatch: scheduled with a notification
// id for reminders, added (no id) for calendar events.
func (e *CalendarEvent) MarkScheduled(status EventStatus, notificationID *int) {
	e.Status = status
	e.NotificationID = notificationID
}

// Rewrite overwrites title and start date and resets the schedule state;
// an edited event must be confirmed again before anything is dispatched.
func (e *CalendarEvent) Rewrite(title, startDate string) {
	e.Title = title
	e.StartDate = startDate
	e.Status = ""
	e.NotificationID = nil
}

// AttachmentKind distinguishes photos from notes
type AttachmentKind string

const (
	AttachmentKindPhoto AttachmentKind = "photo"
	AttachmentKindNote  AttachmentKind = "note"
)

// Attachment is a note or photo captured before or during analysis. Created
// client-side, sent as metadata alongside the audio upload, then embedded
// permanently in the resulting record.
type Attachment struct {
	ID          string         `json:"id"`
	Kind        AttachmentKind `json:"type"`
	Content     string         `json:"content"` // base64 for photos, free text for notes
	Timestamp   string         `json:"timestamp"`
	Description string         `json:"description,omitempty"` // AI-generated, photos only
}

// NewAttachment creates an attachment with a time-based local identifier
func NewAttachment(kind AttachmentKind, content string) Attachment {
	now := time.Now()
	return Attachment{
		ID:        now.Format("20060102150405.000000000"),
		Kind:      kind,
		Content:   content,
		Timestamp: now.Format(time.RFC3339),
	}
}
