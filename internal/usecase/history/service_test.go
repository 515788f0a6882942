package history

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	recordingdto "github.com/gravity-notes/gravity/internal/adapter/dto/recording"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

type fakeGateway struct {
	recordings []recordingdto.RecordingResponse
	err        error
}

func (g *fakeGateway) ListRecordings(ctx context.Context, token string) ([]recordingdto.RecordingResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.recordings, nil
}

// memStore is an in-memory HistoryStore that hands out deep copies, like the
// file store does after a round trip through JSON.
type memStore struct {
	records    []entities.AnalysisRecord
	writeErr   error
	writes     int
	audioSaved []string
}

func (m *memStore) Read() ([]entities.AnalysisRecord, error) {
	data, _ := json.Marshal(m.records)
	var out []entities.AnalysisRecord
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return []entities.AnalysisRecord{}, nil
	}
	return out, nil
}

func (m *memStore) Write(records []entities.AnalysisRecord) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	data, _ := json.Marshal(records)
	var copied []entities.AnalysisRecord
	_ = json.Unmarshal(data, &copied)
	m.records = copied
	m.writes++
	return nil
}

func (m *memStore) Clear() error { m.records = nil; return nil }

func (m *memStore) SaveAudio(recordID string, audio io.Reader) (string, error) {
	_, _ = io.ReadAll(audio)
	m.audioSaved = append(m.audioSaved, recordID)
	return "audio/" + recordID + ".webm", nil
}

func (m *memStore) DeleteAudio(string) error { return nil }

type fakeDispatcher struct {
	dispatched  []entities.CalendarEvent
	cancelled   []entities.CalendarEvent
	nextID      int
	dispatchErr error
	cancelErr   error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event entities.CalendarEvent) (DispatchResult, error) {
	if d.dispatchErr != nil {
		return DispatchResult{}, d.dispatchErr
	}
	d.dispatched = append(d.dispatched, event)
	if event.Kind == entities.EventKindReminder {
		d.nextID++
		id := d.nextID
		return DispatchResult{Status: entities.EventStatusScheduled, NotificationID: &id}, nil
	}
	return DispatchResult{Status: entities.EventStatusAdded}, nil
}

func (d *fakeDispatcher) Cancel(ctx context.Context, event entities.CalendarEvent) error {
	if d.cancelErr != nil {
		return d.cancelErr
	}
	d.cancelled = append(d.cancelled, event)
	return nil
}

func newTestSynchronizer(gateway *fakeGateway, store *memStore, dispatcher *fakeDispatcher) *Synchronizer {
	return NewSynchronizer(gateway, store, dispatcher, zap.NewNop())
}

func seedRecord(id, title string, events ...entities.CalendarEvent) entities.AnalysisRecord {
	return entities.AnalysisRecord{
		ID:               id,
		ExecutiveSummary: entities.ExecutiveSummary{Title: title},
		CalendarEvents:   events,
	}
}

func TestLoadFreshReplacesCache(t *testing.T) {
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("old", "Reunión vieja")}}
	gateway := &fakeGateway{recordings: []recordingdto.RecordingResponse{
		{
			ID:    "rec-1",
			Title: "Planificación Q3",
			Actions: []recordingdto.ActionResponse{
				{Description: "Enviar presupuesto", Owner: "Ana", DueDate: "2024-02-02T18:00:00", IsCompleted: false},
				{Description: "Reservar sala", DueDate: "2024-02-05T09:00:00", IsCompleted: true},
				{Description: "Sin fecha"},
			},
		},
	}}
	sync := newTestSynchronizer(gateway, store, &fakeDispatcher{})

	result, err := sync.Load(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, SourceFresh, result.Source)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	assert.Equal(t, "rec-1", record.ID)
	assert.Len(t, record.Actions, 3)
	// one event per action, due date or not
	require.Len(t, record.CalendarEvents, 3)
	assert.NotEmpty(t, record.CalendarEvents[0].ID)
	assert.False(t, record.CalendarEvents[0].IsScheduled())
	assert.Equal(t, entities.EventStatusScheduled, record.CalendarEvents[1].Status)
	assert.Empty(t, record.CalendarEvents[2].StartDate)

	cached, err := store.Read()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "rec-1", cached[0].ID)
}

func TestLoadFallsBackToCacheOnRemoteFailure(t *testing.T) {
	store := &memStore{records: []entities.AnalysisRecord{
		seedRecord("a", "Uno"),
		seedRecord("b", "Dos"),
		seedRecord("c", "Tres"),
	}}
	gateway := &fakeGateway{err: errors.New("connection refused")}
	sync := newTestSynchronizer(gateway, store, &fakeDispatcher{})

	result, err := sync.Load(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, SourceStale, result.Source)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "Uno", result.Records[0].ExecutiveSummary.Title)
	assert.Equal(t, "Tres", result.Records[2].ExecutiveSummary.Title)
}

func TestIngestEmbedsAttachmentsAndAudio(t *testing.T) {
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("old", "Anterior")}}
	sync := newTestSynchronizer(&fakeGateway{}, store, &fakeDispatcher{})

	attachments := []entities.Attachment{
		entities.NewAttachment(entities.AttachmentKindNote, "revisar con Ana"),
	}
	records, err := sync.Ingest(recordingdto.RecordingResponse{
		ID:    "rec-1",
		Title: "Nueva nota",
		Actions: []recordingdto.ActionResponse{
			{Description: "Enviar informe", DueDate: "2024-02-02T18:00:00"},
		},
	}, attachments, strings.NewReader("webm-bytes"), 9)
	require.NoError(t, err)

	// newest first, persisted
	require.Len(t, records, 2)
	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, "old", records[1].ID)
	assert.Equal(t, 1, store.writes)
	assert.Equal(t, []string{"rec-1"}, store.audioSaved)

	got := records[0]
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "revisar con Ana", got.Attachments[0].Content)
	assert.Equal(t, "audio/rec-1.webm", got.AudioPath)
	assert.Equal(t, int64(9), got.AudioSize)
	require.Len(t, got.CalendarEvents, 1)
}

func TestLoadKeepsLocalAttachmentsAndAudio(t *testing.T) {
	cached := seedRecord("rec-1", "Nueva nota")
	cached.Attachments = []entities.Attachment{
		entities.NewAttachment(entities.AttachmentKindNote, "revisar con Ana"),
	}
	cached.AudioPath = "audio/rec-1.webm"
	cached.AudioSize = 9
	store := &memStore{records: []entities.AnalysisRecord{cached}}
	gateway := &fakeGateway{recordings: []recordingdto.RecordingResponse{
		{ID: "rec-1", Title: "Nueva nota", AudioURL: "https://storage.example/rec-1.webm"},
		{ID: "rec-2", Title: "Solo remota"},
	}}
	sync := newTestSynchronizer(gateway, store, &fakeDispatcher{})

	result, err := sync.Load(context.Background(), "token")
	require.NoError(t, err)
	require.Equal(t, SourceFresh, result.Source)
	require.Len(t, result.Records, 2)

	kept := result.Records[0]
	require.Len(t, kept.Attachments, 1)
	assert.Equal(t, "revisar con Ana", kept.Attachments[0].Content)
	assert.Equal(t, "audio/rec-1.webm", kept.AudioPath)
	assert.Equal(t, int64(9), kept.AudioSize)

	// a record never ingested on this device keeps the remote audio url
	assert.Empty(t, result.Records[1].Attachments)
	assert.Zero(t, result.Records[1].AudioSize)
}

func TestConfirmSchedulesReminder(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	other := entities.NewCalendarEvent(entities.EventKindReminder, "Llamar a Juan", "2024-02-03T10:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event, other)}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Confirm(context.Background(), EventRef{EventID: event.ID})
	require.NoError(t, err)
	require.Len(t, dispatcher.dispatched, 1)
	assert.Equal(t, "Comprar pan", dispatcher.dispatched[0].Title)

	got := records[0].CalendarEvents[0]
	assert.Equal(t, entities.EventStatusScheduled, got.Status)
	require.NotNil(t, got.NotificationID)
	assert.Equal(t, 1, *got.NotificationID)

	// exactly one event touched
	assert.False(t, records[0].CalendarEvents[1].IsScheduled())
	assert.Nil(t, records[0].CalendarEvents[1].NotificationID)
}

func TestConfirmAddsCalendarEvent(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindEvent, "Cena con Marta", "2024-02-02T21:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Agenda", event)}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Confirm(context.Background(), EventRef{EventID: event.ID})
	require.NoError(t, err)

	got := records[0].CalendarEvents[0]
	assert.Equal(t, entities.EventStatusAdded, got.Status)
	assert.Nil(t, got.NotificationID)
	assert.True(t, got.IsScheduled())
}

func TestConfirmIsIdempotent(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	ref := EventRef{EventID: event.ID}
	_, err := sync.Confirm(context.Background(), ref)
	require.NoError(t, err)
	records, err := sync.Confirm(context.Background(), ref)
	require.NoError(t, err)

	assert.Len(t, dispatcher.dispatched, 1)
	require.NotNil(t, records[0].CalendarEvents[0].NotificationID)
	assert.Equal(t, 1, *records[0].CalendarEvents[0].NotificationID)
}

func TestConfirmByContentFallback(t *testing.T) {
	event := entities.CalendarEvent{Kind: entities.EventKindReminder, Title: "Comprar pan", StartDate: "2024-02-02T18:00:00"}
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Confirm(context.Background(), EventRef{Title: "Comprar pan", StartDate: "2024-02-02T18:00:00"})
	require.NoError(t, err)
	assert.Len(t, dispatcher.dispatched, 1)
	assert.True(t, records[0].CalendarEvents[0].IsScheduled())
}

func TestConfirmUnknownRefIsNoOp(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Confirm(context.Background(), EventRef{Title: "No existe", StartDate: "2024-01-01T00:00:00"})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.dispatched)
	assert.Zero(t, store.writes)
	assert.False(t, records[0].CalendarEvents[0].IsScheduled())
}

func TestSkipHidesEventWithoutWriting(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	sync := newTestSynchronizer(&fakeGateway{}, store, &fakeDispatcher{})

	sync.Skip(EventRef{EventID: event.ID})

	pending, err := sync.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Zero(t, store.writes)

	// still pending in the cache itself
	cached, err := store.Read()
	require.NoError(t, err)
	assert.False(t, cached[0].CalendarEvents[0].IsScheduled())
}

func TestEditResetsScheduleAndCancelsNotification(t *testing.T) {
	id := 7
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	event.MarkScheduled(entities.EventStatusScheduled, &id)
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Edit(context.Background(), EventRef{EventID: event.ID}, EventChanges{
		Title:     "Comprar pan integral",
		StartDate: "2024-02-03T18:00:00",
	})
	require.NoError(t, err)
	require.Len(t, dispatcher.cancelled, 1)

	got := records[0].CalendarEvents[0]
	assert.Equal(t, "Comprar pan integral", got.Title)
	assert.Equal(t, "2024-02-03T18:00:00", got.StartDate)
	assert.False(t, got.IsScheduled())
	assert.Nil(t, got.NotificationID)

	// a later confirm yields a fresh notification id
	records, err = sync.Confirm(context.Background(), EventRef{EventID: event.ID})
	require.NoError(t, err)
	require.NotNil(t, records[0].CalendarEvents[0].NotificationID)
	assert.Equal(t, 1, *records[0].CalendarEvents[0].NotificationID)
}

func TestEditKeepsUnchangedFields(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	sync := newTestSynchronizer(&fakeGateway{}, store, &fakeDispatcher{})

	records, err := sync.Edit(context.Background(), EventRef{EventID: event.ID}, EventChanges{StartDate: "2024-02-04T18:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "Comprar pan", records[0].CalendarEvents[0].Title)
	assert.Equal(t, "2024-02-04T18:00:00", records[0].CalendarEvents[0].StartDate)
}

func TestDeleteRemovesFirstMatchOnly(t *testing.T) {
	first := entities.CalendarEvent{Kind: entities.EventKindReminder, Title: "Comprar pan", StartDate: "2024-02-02T18:00:00"}
	second := entities.CalendarEvent{Kind: entities.EventKindReminder, Title: "Comprar pan", StartDate: "2024-02-02T18:00:00"}
	store := &memStore{records: []entities.AnalysisRecord{
		seedRecord("rec-1", "Recado", first),
		seedRecord("rec-2", "Otro recado", second),
	}}
	dispatcher := &fakeDispatcher{}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Delete(context.Background(), EventRef{Title: "Comprar pan", StartDate: "2024-02-02T18:00:00"})
	require.NoError(t, err)
	assert.Empty(t, records[0].CalendarEvents)
	require.Len(t, records[1].CalendarEvents, 1)
	assert.Equal(t, "Comprar pan", records[1].CalendarEvents[0].Title)
}

func TestDeleteProceedsWhenCancelFails(t *testing.T) {
	id := 3
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	event.MarkScheduled(entities.EventStatusScheduled, &id)
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	dispatcher := &fakeDispatcher{cancelErr: errors.New("permission denied")}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	records, err := sync.Delete(context.Background(), EventRef{EventID: event.ID})
	require.NoError(t, err)
	assert.Empty(t, records[0].CalendarEvents)
}

func TestDeleteUnknownRefIsNoOp(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	sync := newTestSynchronizer(&fakeGateway{}, store, &fakeDispatcher{})

	records, err := sync.Delete(context.Background(), EventRef{EventID: "missing"})
	require.NoError(t, err)
	require.Len(t, records[0].CalendarEvents, 1)
	assert.Zero(t, store.writes)
}

func TestConfirmDispatchFailureLeavesEventPending(t *testing.T) {
	event := entities.NewCalendarEvent(entities.EventKindReminder, "Comprar pan", "2024-02-02T18:00:00")
	store := &memStore{records: []entities.AnalysisRecord{seedRecord("rec-1", "Recado", event)}}
	dispatcher := &fakeDispatcher{dispatchErr: errors.New("notifications denied")}
	sync := newTestSynchronizer(&fakeGateway{}, store, dispatcher)

	_, err := sync.Confirm(context.Background(), EventRef{EventID: event.ID})
	require.Error(t, err)

	cached, readErr := store.Read()
	require.NoError(t, readErr)
	assert.False(t, cached[0].CalendarEvents[0].IsScheduled())
	assert.Zero(t, store.writes)
}
