package presenter

import (
	"encoding/json"
	"time"

	recordingdto "github.com/gravity-notes/gravity/internal/adapter/dto/recording"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// AudioURLResolver turns a stored audio object path into a client-facing URL
type AudioURLResolver func(objectPath string) string

// RecordingResponse maps a session entity to its wire representation.
// resolve may be nil when the caller has no storage layer (tests).
func RecordingResponse(session *entities.Session, resolve AudioURLResolver) recordingdto.RecordingResponse {
	resp := recordingdto.RecordingResponse{
		ID:           session.ID.String(),
		Date:         session.Date.Format(time.RFC3339),
		Duration:     session.Duration,
		Title:        session.Title,
		Participants: session.Participants,
		Context:      session.Context,
		Summary:      session.Summary,
		Transcript:   session.Transcript,
		Category:     session.Category,
		Sentiment:    session.Sentiment,
		Actions:      make([]recordingdto.ActionResponse, 0, len(session.Actions)),
	}

	if len(session.AnalysisJSON) > 0 {
		resp.Analysis = json.RawMessage(session.AnalysisJSON)
	}
	if session.AudioPath != "" && resolve != nil {
		resp.AudioURL = resolve(session.AudioPath)
	}

	for _, action := range session.Actions {
		resp.Actions = append(resp.Actions, recordingdto.ActionResponse{
			ID:          action.ID.String(),
			Description: action.Description,
			Owner:       action.Owner,
			DueDate:     action.DueDate,
			IsCompleted: action.IsCompleted,
		})
	}
	return resp
}

// RecordingList maps a slice of sessions preserving order
func RecordingList(sessions []*entities.Session, resolve AudioURLResolver) recordingdto.ListResponse {
	out := recordingdto.ListResponse{
		Recordings: make([]recordingdto.RecordingResponse, 0, len(sessions)),
	}
	for _, session := range sessions {
		out.Recordings = append(out.Recordings, RecordingResponse(session, resolve))
	}
	return out
}
