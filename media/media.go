// Package media drives bounded, sequential batches of generative-media
// provider calls and assembles their results.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MaxPromptLength is the longest prompt text sent to any provider.
// Longer prompts are truncated before the call.
const MaxPromptLength = 4000

// WorkItem is one unit of generation work. Ordering of work items is
// significant and preserved end to end.
type WorkItem struct {
	// Shot is the 1-based shot number, when known.
	Shot int `json:"shot,omitempty"`

	// Prompt is the text sent to the provider.
	Prompt string `json:"prompt"`

	// SourceImage is a local path to an optional conditioning image.
	SourceImage string `json:"sourceImage,omitempty"`

	// AspectRatio is the requested aspect ratio, e.g. "16:9".
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// MediaResult is the outcome for a single work item. A result is either
// fully successful (non-empty URL and LocalPath, empty Error) or fully
// failed (empty URL and LocalPath, non-empty Error), never partial.
type MediaResult struct {
	Shot      int     `json:"shot,omitempty"`
	Prompt    string  `json:"prompt"`
	URL       string  `json:"url,omitempty"`
	LocalPath string  `json:"localPath,omitempty"`
	Model     string  `json:"model,omitempty"`
	Seconds   float64 `json:"seconds,omitempty"`
	Cost      float64 `json:"cost,omitempty"`
	Elapsed   float64 `json:"elapsed,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// OK reports whether the result is a success.
func (r *MediaResult) OK() bool {
	return r.Error == "" && r.LocalPath != ""
}

// BatchResult summarizes one executor invocation.
type BatchResult struct {
	// Results holds one entry per processed work item, in input order.
	Results []MediaResult `json:"results"`

	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// EstimatedCost is the sum of successful items' individual costs.
	EstimatedCost float64 `json:"estimatedCost"`

	// Requested is the number of items requested before any batch cap was
	// applied; Truncated reports that the cap dropped items.
	Requested int  `json:"requested"`
	Truncated bool `json:"truncated,omitempty"`

	// Stitch holds the clip assembly outcome for video batches.
	Stitch *StitchResult `json:"stitch,omitempty"`
}

// GenerateInput is the provider-agnostic generation request.
type GenerateInput struct {
	Prompt          string
	SourceImagePath string
	AspectRatio     string
	Steps           int
	Quality         string
	DurationSeconds int
}

// Asset is a produced media asset, delivered either inline or by URL.
type Asset struct {
	URL      string
	Data     []byte
	MIMEType string
	Seconds  float64
}

// Job identifies an asynchronous provider operation.
type Job struct {
	ID string
}

// GenerateOutput is the immediate result of a provider call: either a
// finished asset or a job handle to poll.
type GenerateOutput struct {
	Asset *Asset
	Job   *Job
}

// JobStatus reports the state of an asynchronous operation.
type JobStatus struct {
	// Status is one of "pending", "running", "completed" or "failed".
	Status string

	// Asset is set once the job completed.
	Asset *Asset

	// FailureReason is set when the job failed.
	FailureReason string
}

// ProviderClient is the vendor-agnostic provider contract. The executors
// only inspect the message string of returned errors, for the rate-limit
// substring check.
type ProviderClient interface {
	Generate(ctx context.Context, modelID string, in GenerateInput) (*GenerateOutput, error)
	PollStatus(ctx context.Context, jobID string) (*JobStatus, error)
}

// ProviderError records a per-item provider failure. It is never fatal to
// a batch.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsRateLimited reports whether an error message indicates provider rate
// limiting.
func IsRateLimited(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "429")
}

// TruncatePrompt caps prompt text at MaxPromptLength characters.
func TruncatePrompt(prompt string) string {
	if len(prompt) <= MaxPromptLength {
		return prompt
	}
	return prompt[:MaxPromptLength]
}

// ValidateWorkItem rejects items that cannot be sent to any provider.
func ValidateWorkItem(item WorkItem) error {
	if strings.TrimSpace(item.Prompt) == "" {
		return fmt.Errorf("work item prompt cannot be empty")
	}
	return nil
}

// sleeper pauses between provider calls. Executors use a real clock by
// default; tests substitute a recorder.
type sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
