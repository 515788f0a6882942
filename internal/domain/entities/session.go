package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session represents one processed recording persisted on the server.
// It is the remote source of truth that the client history mirrors.
type Session struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Date         time.Time      `json:"date" gorm:"not null;default:now();index"`
	Title        string         `json:"title" gorm:"type:varchar(500);not null"`
	Participants string         `json:"participants,omitempty" gorm:"type:text"`
	Context      string         `json:"context,omitempty" gorm:"type:text"`
	Summary      string         `json:"summary" gorm:"type:text"`
	Transcript   string         `json:"transcript" gorm:"type:text"`
	AnalysisJSON datatypes.JSON `json:"analysisJson,omitempty" gorm:"column:analysis_json;type:jsonb;default:'{}'"`
	Category     string         `json:"category" gorm:"type:varchar(50)"`
	Sentiment    string         `json:"sentiment" gorm:"type:varchar(50)"`
	AudioPath    string         `json:"audioPath,omitempty" gorm:"column:audio_path;type:text"`
	Duration     int            `json:"duration,omitempty"`
	Actions      []Action       `json:"actions" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}

// NewSession creates a new session for a user
func NewSession(userID uuid.UUID, title string) *Session {
	return &Session{
		ID:     uuid.New(),
		UserID: userID,
		Date:   time.Now(),
		Title:  title,
	}
}

// Action represents an action item extracted from a session's analysis
type Action struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID   uuid.UUID `json:"session_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Owner       string    `json:"owner,omitempty" gorm:"type:varchar(255)"`
	DueDate     string    `json:"dueDate,omitempty" gorm:"column:due_date;type:varchar(64)"`
	IsCompleted bool      `json:"isCompleted" gorm:"column:is_completed;default:false;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Action
func (Action) TableName() string {
	return "actions"
}

// NewAction creates a new action attached to a session
func NewAction(sessionID uuid.UUID, description string) *Action {
	return &Action{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Description: description,
	}
}
