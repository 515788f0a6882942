package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	authdto "github.com/gravity-notes/gravity/internal/adapter/dto/auth"
	recordingdto "github.com/gravity-notes/gravity/internal/adapter/dto/recording"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// Client talks to the remote analysis service. Every method returns the
// transport or status error as-is; degradation decisions belong to the
// caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway client for the given API base URL
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // analyze waits for transcription + LLM
		},
		logger: logger,
	}
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, email, password string) (*authdto.AuthResponse, error) {
	body, err := json.Marshal(authdto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out authdto.AuthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns a token pair
func (c *Client) Register(ctx context.Context, email, name, password string) (*authdto.AuthResponse, error) {
	body, err := json.Marshal(authdto.RegisterRequest{Email: email, Name: name, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/register", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out authdto.AuthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes a refresh token server-side
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body, err := json.Marshal(authdto.LogoutRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/logout", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// ListRecordings fetches the authenticated user's recordings, newest first
func (c *Client) ListRecordings(ctx context.Context, token string) ([]recordingdto.RecordingResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/recordings", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out recordingdto.ListResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Recordings, nil
}

// UploadAndAnalyze sends one audio recording plus attachment metadata and
// blocks until the server finishes the analysis pipeline
func (c *Client) UploadAndAnalyze(ctx context.Context, token, filename string, audio io.Reader, attachments []entities.Attachment) (*recordingdto.RecordingResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("buffering audio: %w", err)
	}

	if len(attachments) > 0 {
		payload := make([]recordingdto.AttachmentPayload, 0, len(attachments))
		for _, att := range attachments {
			payload = append(payload, recordingdto.AttachmentPayload{
				ID:        att.ID,
				Type:      string(att.Kind),
				Content:   att.Content,
				Timestamp: att.Timestamp,
			})
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := writer.WriteField("attachments", string(data)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/recordings/analyze", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out recordingdto.RecordingResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes the request and decodes a 2xx JSON body into out. Non-2xx
// responses become an error carrying the server's message when it sent one.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
