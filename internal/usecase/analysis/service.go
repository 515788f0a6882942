package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/gravity-notes/gravity/errors"
	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/domain/repositories"
	"github.com/gravity-notes/gravity/pkg/jobcontext"
)

// pipelineTimeout bounds one transcribe-analyze-persist run
const pipelineTimeout = 10 * time.Minute

// Transcriber turns an audio stream into text
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Analyzer produces the structured analysis document and image descriptions
type Analyzer interface {
	Analyze(ctx context.Context, transcript, attachmentContext string) (string, error)
	DescribeImage(ctx context.Context, imageBase64 string) (string, error)
}

// AudioStore persists uploaded audio blobs
type AudioStore interface {
	UploadAudio(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	DeleteAudio(ctx context.Context, objectName string) error
}

// AudioUpload describes the uploaded audio file
type AudioUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service orchestrates the analyze pipeline: attachments context,
// transcription, LLM analysis, audio storage and session persistence
type Service struct {
	sessionRepo repositories.SessionRepository
	transcriber Transcriber
	analyzer    Analyzer
	audioStore  AudioStore
	parser      *Parser
	logger      *zap.Logger
}

// NewService creates a new analysis service
func NewService(sessionRepo repositories.SessionRepository, transcriber Transcriber, analyzer Analyzer, audioStore AudioStore, logger *zap.Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		transcriber: transcriber,
		analyzer:    analyzer,
		audioStore:  audioStore,
		parser:      NewParser(),
		logger:      logger,
	}
}

// Process runs the full analyze pipeline for one upload and returns the
// persisted session. On any failure nothing is persisted.
func (s *Service) Process(ctx context.Context, userID uuid.UUID, upload AudioUpload, attachments []entities.Attachment) (*entities.Session, error) {
	if upload.Reader == nil {
		return nil, apperrors.ErrMissingAudio()
	}

	sessionID := uuid.New()
	ctx, cancel := jobcontext.PipelineBegin(ctx, sessionID, pipelineTimeout)
	defer cancel()

	// The audio stream is consumed twice: transcription and object storage.
	audio, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, apperrors.ErrUploadFailed(err)
	}
	if len(audio) == 0 {
		return nil, apperrors.ErrMissingAudio()
	}

	attachmentContext := s.buildAttachmentContext(jobcontext.WithStage(ctx, "attachments"), attachments)

	s.logger.Info("transcribing audio",
		zap.String("session_id", sessionID.String()),
		zap.Int("audio_bytes", len(audio)),
	)
	transcript, err := s.transcriber.Transcribe(jobcontext.WithStage(ctx, "transcribe"), upload.Filename, bytes.NewReader(audio))
	if err != nil {
		return nil, apperrors.ErrAITranscriptionFailed(err)
	}

	rawAnalysis, err := s.analyzer.Analyze(jobcontext.WithStage(ctx, "analyze"), transcript, attachmentContext)
	if err != nil {
		return nil, apperrors.ErrAIAnalysisFailed(err)
	}

	result, err := s.parser.ParseAnalysisJSON(rawAnalysis)
	if err != nil {
		return nil, apperrors.ErrAIAnalysisFailed(err)
	}

	objectName := sessionID.String() + audioExtension(upload.Filename)
	audioPath, err := s.audioStore.UploadAudio(jobcontext.WithStage(ctx, "store"), objectName, bytes.NewReader(audio), int64(len(audio)), upload.ContentType)
	if err != nil {
		return nil, apperrors.ErrUploadFailed(err)
	}

	session := entities.NewSession(userID, result.ExecutiveSummary.Title)
	session.ID = sessionID
	session.Participants = result.ExecutiveSummary.Participants
	session.Context = result.ExecutiveSummary.Context
	session.Summary = result.ExecutiveSummary.Summary
	session.Transcript = transcript
	session.AnalysisJSON = datatypes.JSON(extractJSON(rawAnalysis))
	session.Category = result.Metadata.Category
	session.Sentiment = result.Metadata.Sentiment
	session.AudioPath = audioPath
	session.Actions = s.parser.ExtractActions(sessionID, result)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		// Do not leave an orphaned audio object behind
		if delErr := s.audioStore.DeleteAudio(ctx, objectName); delErr != nil {
			s.logger.Warn("failed to remove audio after persist failure", zap.Error(delErr))
		}
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("session analyzed",
		zap.String("session_id", sessionID.String()),
		zap.Int("actions", len(session.Actions)),
		zap.Duration("elapsed", jobcontext.Elapsed(ctx)),
	)
	return session, nil
}

// List returns all sessions for a user, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return sessions, nil
}

// Delete removes a session owned by the user
func (s *Service) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := s.sessionRepo.Delete(ctx, userID, sessionID); err != nil {
		if err == entities.ErrSessionNotFound {
			return apperrors.ErrSessionNotFound(sessionID.String())
		}
		return apperrors.ErrInternal(err)
	}
	return nil
}

// buildAttachmentContext folds photo descriptions and notes into extra
// context for the analysis prompt. A failed photo description degrades to a
// placeholder instead of aborting the pipeline.
func (s *Service) buildAttachmentContext(ctx context.Context, attachments []entities.Attachment) string {
	var b bytes.Buffer
	for _, att := range attachments {
		switch att.Kind {
		case entities.AttachmentKindPhoto:
			description, err := s.analyzer.DescribeImage(ctx, att.Content)
			if err != nil {
				s.logger.Warn("image description failed", zap.String("attachment_id", att.ID), zap.Error(err))
				description = "Error al analizar la imagen"
			}
			fmt.Fprintf(&b, "\n📷 Foto adjunta: %s\n", description)
		case entities.AttachmentKindNote:
			fmt.Fprintf(&b, "\n📝 Nota: %s\n", att.Content)
		}
	}
	return b.String()
}

func audioExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ".webm"
	}
	return ext
}
