package ai

import (
	"context"
	"fmt"
	"io"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/gravity-notes/gravity/pkg/config"
)

// AssemblyAIClient wraps the official SDK for synchronous transcription
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates a transcription client from config
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	return &AssemblyAIClient{
		client: aai.NewClient(apiKey),
	}
}

// Transcribe uploads an audio stream, submits it for transcription and polls
// until the transcript completes. The backoff caps each wait at 15 seconds;
// overall cancellation is governed by ctx.
func (a *AssemblyAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	uploadURL, err := a.client.Upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	submitted, err := a.client.Transcripts.SubmitFromURL(ctx, uploadURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcript: %w", err)
	}
	if submitted.ID == nil {
		return "", fmt.Errorf("transcript submission returned no id")
	}

	var text string
	poll := func() error {
		transcript, err := a.client.Transcripts.Get(ctx, *submitted.ID)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to fetch transcript: %w", err))
		}

		switch transcript.Status {
		case aai.TranscriptStatusCompleted:
			if transcript.Text != nil {
				text = *transcript.Text
			}
			return nil
		case aai.TranscriptStatusError:
			msg := "unknown error"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			return backoff.Permanent(fmt.Errorf("transcription failed: %s", msg))
		default:
			return fmt.Errorf("transcript still processing")
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxInterval = 15 * time.Second
	policy.MaxElapsedTime = 0 // ctx bounds the poll loop

	if err := backoff.Retry(poll, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}
	return text, nil
}
