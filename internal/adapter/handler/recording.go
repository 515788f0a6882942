package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/gravity-notes/gravity/errors"
	recordingdto "github.com/gravity-notes/gravity/internal/adapter/dto/recording"
	"github.com/gravity-notes/gravity/internal/adapter/presenter"
	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/infrastructure/http/middleware"
	"github.com/gravity-notes/gravity/internal/usecase/analysis"
)

// maxAttachments caps how many attachments one recording may carry
const maxAttachments = 20

// Recording handles recording HTTP requests
type Recording struct {
	analysisService *analysis.Service
	resolveAudioURL presenter.AudioURLResolver
	logger          *zap.Logger
}

// NewRecording creates a new recording handler
func NewRecording(analysisService *analysis.Service, resolveAudioURL presenter.AudioURLResolver, logger *zap.Logger) *Recording {
	return &Recording{
		analysisService: analysisService,
		resolveAudioURL: resolveAudioURL,
		logger:          logger,
	}
}

// List returns the authenticated user's recordings, newest first
// GET /v1/recordings
func (h *Recording) List(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	sessions, err := h.analysisService.List(ctx, user.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.RecordingList(sessions, h.resolveAudioURL))
}

// Analyze runs the full pipeline on one uploaded recording
// POST /v1/recordings/analyze
func (h *Recording) Analyze(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrMissingAudio())
	}
	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrUploadFailed(err))
	}
	defer file.Close()

	attachments, err := parseAttachments(c.FormValue("attachments"), c.Validate)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	session, err := h.analysisService.Process(ctx, user.ID, analysis.AudioUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}, attachments)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.RecordingResponse(session, h.resolveAudioURL))
}

// Delete removes one of the user's recordings
// DELETE /v1/recordings/:id
func (h *Recording) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return HandleError(h.logger, c, apperrors.ErrUnauthenticated())
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid recording id"))
	}

	if err := h.analysisService.Delete(ctx, user.ID, sessionID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// parseAttachments decodes the attachments form field, a JSON array of
// attachment metadata sent alongside the audio file. Each entry goes through
// the request validator before conversion.
func parseAttachments(raw string, validate func(interface{}) error) ([]entities.Attachment, error) {
	if raw == "" {
		return nil, nil
	}

	var payload []recordingdto.AttachmentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperrors.ErrInvalidAttachments(err)
	}
	if len(payload) > maxAttachments {
		return nil, apperrors.ErrInvalidAttachments(nil).WithDetail("reason", "too many attachments")
	}

	attachments := make([]entities.Attachment, 0, len(payload))
	for _, p := range payload {
		if err := validate(&p); err != nil {
			return nil, apperrors.ErrInvalidAttachments(err).WithDetail("type", p.Type)
		}
		attachments = append(attachments, entities.Attachment{
			ID:        p.ID,
			Kind:      entities.AttachmentKind(p.Type),
			Content:   p.Content,
			Timestamp: p.Timestamp,
		})
	}
	return attachments, nil
}
