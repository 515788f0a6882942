package jobcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyPipelineID    KeyContext = "pipeline_id"
	keyPipelineStage KeyContext = "pipeline_stage"
	keyStartTime     KeyContext = "pipeline_start_time"
)

// PipelineBegin initializes a context for one analyze pipeline run. The
// timeout bounds the whole transcribe-analyze-persist chain so a hung
// provider cannot pin the request forever.
func PipelineBegin(parentCtx context.Context, pipelineID uuid.UUID, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	ctx = context.WithValue(ctx, keyPipelineID, pipelineID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx, cancel
}

// WithStage annotates the context with the current pipeline stage
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, keyPipelineStage, stage)
}

// PipelineID extracts the pipeline id from context
func PipelineID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyPipelineID).(uuid.UUID)
	return id, ok
}

// Stage extracts the current pipeline stage from context
func Stage(ctx context.Context) string {
	stage, ok := ctx.Value(keyPipelineStage).(string)
	if !ok {
		return ""
	}
	return stage
}

// Elapsed returns how long the pipeline has been running
func Elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// IsRetryableError reports whether a provider error is worth retrying.
// Network errors, rate limits and 5xx responses qualify; validation and
// auth errors do not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	return false
}
