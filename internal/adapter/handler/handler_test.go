package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/gravity-notes/gravity/errors"
	"github.com/gravity-notes/gravity/internal/domain/entities"
	pkgvalidator "github.com/gravity-notes/gravity/pkg/validator"
)

func testValidate(i interface{}) error {
	return pkgvalidator.New().Validate(i)
}

func TestParseAttachments(t *testing.T) {
	attachments, err := parseAttachments(`[
		{"id":"1","type":"note","content":"Revisar contrato","timestamp":"2024-02-01T10:00:00Z"},
		{"id":"2","type":"photo","content":"aGVsbG8=","timestamp":"2024-02-01T10:01:00Z"}
	]`, testValidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(attachments))
	}
	if attachments[0].Kind != entities.AttachmentKindNote {
		t.Errorf("expected note, got %s", attachments[0].Kind)
	}
	if attachments[1].Kind != entities.AttachmentKindPhoto {
		t.Errorf("expected photo, got %s", attachments[1].Kind)
	}
}

func TestParseAttachmentsEmpty(t *testing.T) {
	attachments, err := parseAttachments("", testValidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attachments != nil {
		t.Errorf("expected nil attachments, got %v", attachments)
	}
}

func TestParseAttachmentsRejectsMalformedJSON(t *testing.T) {
	if _, err := parseAttachments("{not json", testValidate); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseAttachmentsRejectsUnknownType(t *testing.T) {
	_, err := parseAttachments(`[{"id":"1","type":"video","content":"x"}]`, testValidate)
	if err == nil {
		t.Fatal("expected error for unknown attachment type")
	}
}

func TestParseAttachmentsRejectsEmptyContent(t *testing.T) {
	_, err := parseAttachments(`[{"id":"1","type":"note","content":""}]`, testValidate)
	if err == nil {
		t.Fatal("expected error for empty attachment content")
	}
}

func TestHandleErrorMapsAppError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/recordings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := HandleError(zap.NewNop(), c, apperrors.ErrMissingAudio()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["message"] != "Missing audio file" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestHandleErrorWrapsUnknownErrorsAs500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/recordings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := HandleError(zap.NewNop(), c, errors.New("boom")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["message"] != "Internal server error" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
