package history

import (
	"encoding/json"

	recordingdto "github.com/gravity-notes/gravity/internal/adapter/dto/recording"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// MapRecording converts one remote recording into the local record shape.
// Every remote action becomes exactly one reminder calendar event, due date
// or not; completed actions arrive already scheduled so the dispatcher is
// never re-triggered for them.
func MapRecording(remote recordingdto.RecordingResponse) entities.AnalysisRecord {
	record := entities.AnalysisRecord{
		ID:         remote.ID,
		Date:       remote.Date,
		Duration:   remote.Duration,
		AudioPath:  remote.AudioURL,
		Transcript: remote.Transcript,
		ExecutiveSummary: entities.ExecutiveSummary{
			Title:        remote.Title,
			Participants: remote.Participants,
			Context:      remote.Context,
			Summary:      remote.Summary,
		},
		KeyPoints: []entities.KeyPoint{},
		Actions:   []entities.ActionItem{},
		Metadata: entities.Metadata{
			Keywords:  []string{},
			Category:  remote.Category,
			Sentiment: remote.Sentiment,
		},
	}

	// The stored analysis document carries the pieces the flat columns do
	// not: key points, diagram, keywords.
	if len(remote.Analysis) > 0 {
		var analysis entities.AnalysisResult
		if err := json.Unmarshal(remote.Analysis, &analysis); err == nil {
			record.KeyPoints = analysis.KeyPoints
			record.MermaidDiagram = analysis.MermaidDiagram
			if len(analysis.Metadata.Keywords) > 0 {
				record.Metadata.Keywords = analysis.Metadata.Keywords
			}
		}
	}

	for _, action := range remote.Actions {
		record.Actions = append(record.Actions, entities.ActionItem{
			Description: action.Description,
			Owner:       action.Owner,
			DueDate:     action.DueDate,
		})
		event := entities.NewCalendarEvent(entities.EventKindReminder, action.Description, action.DueDate)
		if action.Owner != "" {
			event.Description = "Responsable: " + action.Owner
		}
		if action.IsCompleted {
			event.MarkScheduled(entities.EventStatusScheduled, nil)
		}
		record.CalendarEvents = append(record.CalendarEvents, event)
	}

	return record
}

// MapRecordings converts the full remote list, preserving server order
func MapRecordings(remote []recordingdto.RecordingResponse) []entities.AnalysisRecord {
	records := make([]entities.AnalysisRecord, 0, len(remote))
	for _, r := range remote {
		records = append(records, MapRecording(r))
	}
	return records
}
