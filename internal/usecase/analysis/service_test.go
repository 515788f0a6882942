package analysis

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/gravity-notes/gravity/errors"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

type fakeSessionRepo struct {
	created   []*entities.Session
	createErr error
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entities.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, session)
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	for _, s := range r.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, entities.ErrSessionNotFound
}

func (r *fakeSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error) {
	return r.created, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	return nil
}

type fakeTranscriber struct {
	transcript string
	err        error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakeAnalyzer struct {
	response    string
	analyzeErr  error
	description string
	describeErr error
	lastContext string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, transcript, attachmentContext string) (string, error) {
	f.lastContext = attachmentContext
	if f.analyzeErr != nil {
		return "", f.analyzeErr
	}
	return f.response, nil
}

func (f *fakeAnalyzer) DescribeImage(ctx context.Context, imageBase64 string) (string, error) {
	if f.describeErr != nil {
		return "", f.describeErr
	}
	return f.description, nil
}

type fakeAudioStore struct {
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (f *fakeAudioStore) UploadAudio(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = append(f.uploaded, objectName)
	return objectName, nil
}

func (f *fakeAudioStore) DeleteAudio(ctx context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	return nil
}

func sampleUpload() AudioUpload {
	return AudioUpload{
		Filename:    "memo.webm",
		ContentType: "audio/webm",
		Size:        11,
		Reader:      strings.NewReader("audio-bytes"),
	}
}

func TestProcessPersistsSessionWithActions(t *testing.T) {
	repo := &fakeSessionRepo{}
	store := &fakeAudioStore{}
	analyzer := &fakeAnalyzer{response: sampleAnalysis}
	svc := NewService(repo, &fakeTranscriber{transcript: "hola"}, analyzer, store, zap.NewNop())

	session, err := svc.Process(context.Background(), uuid.New(), sampleUpload(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Planificación del viaje", session.Title)
	assert.Equal(t, "hola", session.Transcript)
	assert.Equal(t, "Personal", session.Category)
	require.Len(t, session.Actions, 2)
	assert.Equal(t, session.ID, session.Actions[0].SessionID)

	require.Len(t, repo.created, 1)
	require.Len(t, store.uploaded, 1)
	assert.Equal(t, session.ID.String()+".webm", store.uploaded[0])
}

func TestProcessBuildsAttachmentContext(t *testing.T) {
	analyzer := &fakeAnalyzer{response: sampleAnalysis, description: "una pizarra con fechas"}
	svc := NewService(&fakeSessionRepo{}, &fakeTranscriber{transcript: "hola"}, analyzer, &fakeAudioStore{}, zap.NewNop())

	_, err := svc.Process(context.Background(), uuid.New(), sampleUpload(), []entities.Attachment{
		entities.NewAttachment(entities.AttachmentKindNote, "Confirmar con Luis"),
		entities.NewAttachment(entities.AttachmentKindPhoto, "aGVsbG8="),
	})
	require.NoError(t, err)
	assert.Contains(t, analyzer.lastContext, "📝 Nota: Confirmar con Luis")
	assert.Contains(t, analyzer.lastContext, "📷 Foto adjunta: una pizarra con fechas")
}

func TestProcessImageDescriptionFailureDegrades(t *testing.T) {
	analyzer := &fakeAnalyzer{response: sampleAnalysis, describeErr: errors.New("vision down")}
	svc := NewService(&fakeSessionRepo{}, &fakeTranscriber{transcript: "hola"}, analyzer, &fakeAudioStore{}, zap.NewNop())

	_, err := svc.Process(context.Background(), uuid.New(), sampleUpload(), []entities.Attachment{
		entities.NewAttachment(entities.AttachmentKindPhoto, "aGVsbG8="),
	})
	require.NoError(t, err)
	assert.Contains(t, analyzer.lastContext, "Error al analizar la imagen")
}

func TestProcessMissingAudio(t *testing.T) {
	svc := NewService(&fakeSessionRepo{}, &fakeTranscriber{}, &fakeAnalyzer{response: sampleAnalysis}, &fakeAudioStore{}, zap.NewNop())

	_, err := svc.Process(context.Background(), uuid.New(), AudioUpload{Filename: "memo.webm"}, nil)
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_MISSING_AUDIO, appErr.Code)
}

func TestProcessTranscriptionFailurePersistsNothing(t *testing.T) {
	repo := &fakeSessionRepo{}
	store := &fakeAudioStore{}
	svc := NewService(repo, &fakeTranscriber{err: errors.New("provider down")}, &fakeAnalyzer{response: sampleAnalysis}, store, zap.NewNop())

	_, err := svc.Process(context.Background(), uuid.New(), sampleUpload(), nil)
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_AI_TRANSCRIPTION_FAILED, appErr.Code)
	assert.Empty(t, repo.created)
	assert.Empty(t, store.uploaded)
}

func TestProcessPersistFailureRemovesUploadedAudio(t *testing.T) {
	repo := &fakeSessionRepo{createErr: errors.New("db down")}
	store := &fakeAudioStore{}
	svc := NewService(repo, &fakeTranscriber{transcript: "hola"}, &fakeAnalyzer{response: sampleAnalysis}, store, zap.NewNop())

	_, err := svc.Process(context.Background(), uuid.New(), sampleUpload(), nil)
	require.Error(t, err)
	require.Len(t, store.uploaded, 1)
	assert.Equal(t, store.uploaded, store.deleted)
}
