package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/gravity-notes/gravity/pkg/config"
	"github.com/gravity-notes/gravity/pkg/jobcontext"
)

// OpenAIClient is a minimal client for the OpenAI API calls used for
// transcription, analysis and image description
type OpenAIClient struct {
	apiKey             string
	baseURL            string
	transcriptionModel string
	analysisModel      string
	visionModel        string
	client             *http.Client
}

// NewOpenAIClient creates an OpenAI client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("OPENAI_API_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}

	c := &OpenAIClient{
		apiKey:             apiKey,
		baseURL:            base,
		transcriptionModel: "whisper-1",
		analysisModel:      "gpt-4o",
		visionModel:        "gpt-4o",
		client:             &http.Client{Timeout: 120 * time.Second},
	}
	if cfg != nil {
		if cfg.TranscriptionModel != "" {
			c.transcriptionModel = cfg.TranscriptionModel
		}
		if cfg.AnalysisModel != "" {
			c.analysisModel = cfg.AnalysisModel
		}
		if cfg.VisionModel != "" {
			c.visionModel = cfg.VisionModel
		}
	}
	return c
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model          string      `json:"model,omitempty"`
	Messages       interface{} `json:"messages,omitempty"`
	MaxTokens      int         `json:"max_tokens,omitempty"`
	ResponseFormat interface{} `json:"response_format,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// transcriptionResponse is the whisper endpoint response shape
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends an audio stream to the transcription endpoint and returns
// the full text
func (o *OpenAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", o.transcriptionModel); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := o.baseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("transcription endpoint returned status %d", resp.StatusCode)
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return tr.Text, nil
}

// Analyze sends the transcript plus attachment context to the chat endpoint
// and returns the assistant content (a JSON document)
func (o *OpenAIClient) Analyze(ctx context.Context, transcript, attachmentContext string) (string, error) {
	fullContext := transcript
	if attachmentContext != "" {
		fullContext = fmt.Sprintf("%s\n\n--- INFORMACIÓN ADICIONAL ---\n%s", transcript, attachmentContext)
	}

	reqBody := ChatRequest{
		Model: o.analysisModel,
		Messages: []map[string]string{
			{"role": "system", "content": SystemPrompt},
			{"role": "user", "content": fmt.Sprintf("Analiza la siguiente transcripción y contexto adicional:\n\n%s", fullContext)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	return o.chat(ctx, reqBody)
}

// DescribeImage asks the vision model for a description of a base64 image
func (o *OpenAIClient) DescribeImage(ctx context.Context, imageBase64 string) (string, error) {
	reqBody := ChatRequest{
		Model: o.visionModel,
		Messages: []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": imageDescriptionPrompt},
					{"type": "image_url", "image_url": map[string]string{"url": imageBase64}},
				},
			},
		},
		MaxTokens: 500,
	}

	return o.chat(ctx, reqBody)
}

// chat posts a completion request, retrying transient provider failures
// with exponential backoff. Each attempt rebuilds the request from reqBody.
func (o *OpenAIClient) chat(ctx context.Context, reqBody ChatRequest) (string, error) {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	endpoint := o.baseURL + "/v1/chat/completions"

	var content string
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			if jobcontext.IsRetryableError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			statusErr := fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		var cr ChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return backoff.Permanent(err)
		}
		if len(cr.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("empty response from model"))
		}
		content = cr.Choices[0].Message.Content
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(attempt, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}
	return content, nil
}
