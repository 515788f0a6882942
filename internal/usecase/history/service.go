package history

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	recordingdto "github.com/gravity-notes/gravity/internal/adapter/dto/recording"
	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/domain/repositories"
)

// Gateway fetches recordings from the remote analysis service
type Gateway interface {
	ListRecordings(ctx context.Context, token string) ([]recordingdto.RecordingResponse, error)
}

// DispatchResult is the outcome of a successful dispatch. Reminders come
// back scheduled with a notification id; calendar events come back added.
type DispatchResult struct {
	Status         entities.EventStatus
	NotificationID *int
}

// Dispatcher hands confirmed events to the platform calendar/notification
// layer
type Dispatcher interface {
	Dispatch(ctx context.Context, event entities.CalendarEvent) (DispatchResult, error)
	Cancel(ctx context.Context, event entities.CalendarEvent) error
}

// Source tells callers whether a load came from the server or the cache
type Source string

const (
	SourceFresh Source = "fresh"
	SourceStale Source = "stale"
)

// LoadResult is the outcome of a history load
type LoadResult struct {
	Source  Source
	Records []entities.AnalysisRecord
}

// EventRef identifies one embedded calendar event. The synthetic event id is
// preferred; (title, start date) is the fallback identity for records that
// predate it.
type EventRef struct {
	RecordID  string
	EventID   string
	Title     string
	StartDate string
}

// EventChanges carries the editable fields of an event. Empty fields keep
// the current value.
type EventChanges struct {
	Title     string
	StartDate string
}

// PendingEvent is an unconfirmed event together with its parent record id
type PendingEvent struct {
	RecordID string
	Event    entities.CalendarEvent
}

// Synchronizer reconciles the local history cache against the remote
// service and owns every mutation of the embedded calendar events. All
// mutations rewrite the whole collection and return a fresh read of it.
type Synchronizer struct {
	gateway    Gateway
	store      repositories.HistoryStore
	dispatcher Dispatcher
	logger     *zap.Logger

	mu      sync.Mutex
	skipped map[string]struct{}
}

// NewSynchronizer creates a new history synchronizer
func NewSynchronizer(gateway Gateway, store repositories.HistoryStore, dispatcher Dispatcher, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		gateway:    gateway,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		skipped:    make(map[string]struct{}),
	}
}

// Load refreshes the history from the server and replaces the local cache.
// Any remote failure degrades to the last persisted cache; the caller only
// sees which source won.
func (s *Synchronizer) Load(ctx context.Context, token string) (LoadResult, error) {
	remote, err := s.gateway.ListRecordings(ctx, token)
	if err != nil {
		s.logger.Warn("remote history unavailable, serving cache", zap.Error(err))
		cached, readErr := s.store.Read()
		if readErr != nil {
			s.logger.Warn("cache read failed", zap.Error(readErr))
			cached = []entities.AnalysisRecord{}
		}
		return LoadResult{Source: SourceStale, Records: cached}, nil
	}

	records := MapRecordings(remote)
	s.carryLocalFields(records)
	if err := s.store.Write(records); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
	}
	return LoadResult{Source: SourceFresh, Records: records}, nil
}

// Ingest folds a freshly analyzed recording into the cache: the attachments
// sent with the upload are embedded into the record and the audio is copied
// next to the cache, so both stay available offline.
func (s *Synchronizer) Ingest(remote recordingdto.RecordingResponse, attachments []entities.Attachment, audio io.Reader, audioSize int64) ([]entities.AnalysisRecord, error) {
	record := MapRecording(remote)
	record.Attachments = attachments
	record.AudioSize = audioSize

	if audio != nil {
		path, err := s.store.SaveAudio(record.ID, audio)
		if err != nil {
			s.logger.Warn("could not keep a local audio copy", zap.String("record_id", record.ID), zap.Error(err))
		} else {
			record.AudioPath = path
		}
	}

	records, err := s.store.Read()
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	// server order is newest first
	records = append([]entities.AnalysisRecord{record}, records...)
	return s.persist(records)
}

// carryLocalFields keeps the client-only pieces of a record across a cache
// replacement: the server never returns attachments or the local audio copy.
// A non-zero AudioSize marks a record that was ingested on this device.
func (s *Synchronizer) carryLocalFields(records []entities.AnalysisRecord) {
	cached, err := s.store.Read()
	if err != nil || len(cached) == 0 {
		return
	}
	byID := make(map[string]entities.AnalysisRecord, len(cached))
	for _, r := range cached {
		byID[r.ID] = r
	}
	for i := range records {
		prev, ok := byID[records[i].ID]
		if !ok {
			continue
		}
		if len(records[i].Attachments) == 0 {
			records[i].Attachments = prev.Attachments
		}
		if prev.AudioSize > 0 {
			records[i].AudioPath = prev.AudioPath
			records[i].AudioSize = prev.AudioSize
		}
	}
}

// Records returns the cached collection without touching the network
func (s *Synchronizer) Records() ([]entities.AnalysisRecord, error) {
	return s.store.Read()
}

// Pending returns the unconfirmed events across all cached records, minus
// the ones skipped this session
func (s *Synchronizer) Pending() ([]PendingEvent, error) {
	records, err := s.store.Read()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []PendingEvent
	for _, record := range records {
		for _, event := range record.CalendarEvents {
			if event.IsScheduled() {
				continue
			}
			if _, ok := s.skipped[skipKey(event)]; ok {
				continue
			}
			pending = append(pending, PendingEvent{RecordID: record.ID, Event: event})
		}
	}
	return pending, nil
}

// Confirm dispatches one pending event and marks it scheduled. Confirming an
// already-scheduled event is a no-op: the dispatcher is not invoked again, so
// no duplicate notification can exist. A ref that matches nothing is also a
// no-op.
func (s *Synchronizer) Confirm(ctx context.Context, ref EventRef) ([]entities.AnalysisRecord, error) {
	records, err := s.store.Read()
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	recordIdx, eventIdx, ok := findEvent(records, ref)
	if !ok {
		return records, nil
	}
	event := &records[recordIdx].CalendarEvents[eventIdx]
	if event.IsScheduled() {
		return records, nil
	}

	result, err := s.dispatcher.Dispatch(ctx, *event)
	if err != nil {
		return nil, fmt.Errorf("dispatching %q: %w", event.Title, err)
	}
	event.MarkScheduled(result.Status, result.NotificationID)

	return s.persist(records)
}

// Skip hides one pending event for the rest of the session. Nothing is
// written: the event reappears on the next load.
func (s *Synchronizer) Skip(ref EventRef) {
	records, err := s.store.Read()
	if err != nil {
		return
	}
	recordIdx, eventIdx, ok := findEvent(records, ref)
	if !ok {
		return
	}

	s.mu.Lock()
	s.skipped[skipKey(records[recordIdx].CalendarEvents[eventIdx])] = struct{}{}
	s.mu.Unlock()
}

// Edit overwrites an event's title and start date. A scheduled reminder has
// its pending notification cancelled first; either way the event goes back to
// pending and must be confirmed again.
func (s *Synchronizer) Edit(ctx context.Context, ref EventRef, changes EventChanges) ([]entities.AnalysisRecord, error) {
	records, err := s.store.Read()
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	recordIdx, eventIdx, ok := findEvent(records, ref)
	if !ok {
		return records, nil
	}
	event := &records[recordIdx].CalendarEvents[eventIdx]

	if event.Kind == entities.EventKindReminder && event.NotificationID != nil {
		if err := s.dispatcher.Cancel(ctx, *event); err != nil {
			s.logger.Warn("could not cancel notification", zap.String("title", event.Title), zap.Error(err))
		}
	}

	title := event.Title
	if changes.Title != "" {
		title = changes.Title
	}
	startDate := event.StartDate
	if changes.StartDate != "" {
		startDate = changes.StartDate
	}
	event.Rewrite(title, startDate)

	return s.persist(records)
}

// Delete removes exactly the first matching event. Cancellation is requested
// first but never blocks the removal: local state wins over the platform
// calendar.
func (s *Synchronizer) Delete(ctx context.Context, ref EventRef) ([]entities.AnalysisRecord, error) {
	records, err := s.store.Read()
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	recordIdx, eventIdx, ok := findEvent(records, ref)
	if !ok {
		return records, nil
	}

	event := records[recordIdx].CalendarEvents[eventIdx]
	if err := s.dispatcher.Cancel(ctx, event); err != nil {
		s.logger.Warn("could not cancel before delete", zap.String("title", event.Title), zap.Error(err))
	}

	events := records[recordIdx].CalendarEvents
	records[recordIdx].CalendarEvents = append(events[:eventIdx], events[eventIdx+1:]...)

	return s.persist(records)
}

// persist rewrites the collection and returns a fresh read of it, so callers
// always see exactly what the store now holds
func (s *Synchronizer) persist(records []entities.AnalysisRecord) ([]entities.AnalysisRecord, error) {
	if err := s.store.Write(records); err != nil {
		return nil, fmt.Errorf("writing history: %w", err)
	}
	return s.store.Read()
}

// findEvent locates one event by ref. The id pass runs over the whole
// collection before the content pass so a stale (title, start date) pair can
// never shadow an exact id match. First match in iteration order wins.
func findEvent(records []entities.AnalysisRecord, ref EventRef) (recordIdx, eventIdx int, ok bool) {
	if ref.EventID != "" {
		for i := range records {
			if ref.RecordID != "" && records[i].ID != ref.RecordID {
				continue
			}
			for j := range records[i].CalendarEvents {
				if records[i].CalendarEvents[j].ID == ref.EventID {
					return i, j, true
				}
			}
		}
	}
	if ref.Title == "" && ref.StartDate == "" {
		return 0, 0, false
	}
	for i := range records {
		if ref.RecordID != "" && records[i].ID != ref.RecordID {
			continue
		}
		for j := range records[i].CalendarEvents {
			if records[i].CalendarEvents[j].MatchesContent(ref.Title, ref.StartDate) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func skipKey(event entities.CalendarEvent) string {
	if event.ID != "" {
		return event.ID
	}
	return event.Title + "|" + event.StartDate
}
