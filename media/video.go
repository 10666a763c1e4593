package media

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marcusg999/open-agent-builder/retry"
	"github.com/marcusg999/open-agent-builder/slogger"
)

const (
	// MaxVideoBatch is the hard cap on items per video batch.
	MaxVideoBatch = 10

	videoPace     = 2 * time.Second
	videoCooldown = 30 * time.Second

	// Asynchronous providers are polled every pollInterval for up to
	// maxPollAttempts (~10 minutes).
	pollInterval    = 5 * time.Second
	maxPollAttempts = 120
)

// VideoRequest is one video batch.
type VideoRequest struct {
	Items       []WorkItem
	ProfileID   string
	Mode        ConditioningMode
	AspectRatio string

	// Stitch enables concatenation of successful clips into a single
	// deliverable after the batch completes.
	Stitch bool
}

// VideoExecutorOptions configures a VideoExecutor.
type VideoExecutorOptions struct {
	Client   ProviderClient
	Registry *Registry
	Assets   *AssetStore
	Stitcher *Stitcher
	Logger   slogger.Logger

	// Overrides for tests.
	Pace         time.Duration
	Cooldown     time.Duration
	PollInterval time.Duration
	PollAttempts int
	Sleep        func(ctx context.Context, d time.Duration) error

	// Retry configures per-call retry behavior for transient provider
	// errors. Rate-limit errors trigger the cool-down instead.
	Retry retry.Options
}

// VideoExecutor processes video batches strictly sequentially. Items that
// return a job handle are polled to completion; poll exhaustion and
// terminal failures are item failures, never fatal.
type VideoExecutor struct {
	client       ProviderClient
	registry     *Registry
	assets       *AssetStore
	stitcher     *Stitcher
	logger       slogger.Logger
	pace         time.Duration
	cooldown     time.Duration
	pollInterval time.Duration
	pollAttempts int
	sleep        sleeper
	retry        retry.Options
}

// NewVideoExecutor creates a video batch executor.
func NewVideoExecutor(opts VideoExecutorOptions) (*VideoExecutor, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("provider client is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("model registry is required")
	}
	if opts.Assets == nil {
		return nil, fmt.Errorf("asset store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slogger.DefaultLogger
	}
	if opts.Pace == 0 {
		opts.Pace = videoPace
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = videoCooldown
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = pollInterval
	}
	if opts.PollAttempts == 0 {
		opts.PollAttempts = maxPollAttempts
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &VideoExecutor{
		client:       opts.Client,
		registry:     opts.Registry,
		assets:       opts.Assets,
		stitcher:     opts.Stitcher,
		logger:       opts.Logger,
		pace:         opts.Pace,
		cooldown:     opts.Cooldown,
		pollInterval: opts.PollInterval,
		pollAttempts: opts.PollAttempts,
		sleep:        opts.Sleep,
		retry:        opts.Retry,
	}, nil
}

// Execute runs the batch. The returned error is non-nil only for fatal
// configuration problems detected before any provider call.
func (e *VideoExecutor) Execute(ctx context.Context, req VideoRequest) (*BatchResult, error) {
	profile, err := e.registry.VideoProfile(req.ProfileID)
	if err != nil {
		return nil, err
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if mode == ModeImage && !profile.SupportsImage {
		return nil, fmt.Errorf("model profile %q does not support image conditioning", profile.ID)
	}

	batch := &BatchResult{Requested: len(req.Items)}
	items := req.Items
	if len(items) > MaxVideoBatch {
		items = items[:MaxVideoBatch]
		batch.Truncated = true
		e.logger.Warn("video batch truncated",
			"requested", batch.Requested, "cap", MaxVideoBatch)
	}

	log := e.logger.With("profile", profile.ID, "items", len(items))
	log.Info("starting video batch")

	for i, item := range items {
		if i > 0 {
			if err := e.sleep(ctx, e.pace); err != nil {
				return batch, err
			}
		}
		result := e.generateOne(ctx, profile, mode, req.AspectRatio, item)
		batch.Results = append(batch.Results, result)
		if result.OK() {
			batch.Succeeded++
			batch.EstimatedCost += result.Cost
		} else {
			batch.Failed++
			log.Warn("video generation failed", "shot", item.Shot, "error", result.Error)
			if IsRateLimited(result.Error) {
				log.Warn("rate limited, cooling down", "wait", e.cooldown)
				if err := e.sleep(ctx, e.cooldown); err != nil {
					return batch, err
				}
			}
		}
	}

	if req.Stitch && e.stitcher != nil {
		batch.Stitch = e.stitcher.Concat(ctx, batch.Results)
	}

	log.Info("video batch complete",
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
		"estimated_cost", batch.EstimatedCost)
	return batch, nil
}

func (e *VideoExecutor) generateOne(ctx context.Context, profile VideoProfile, mode ConditioningMode, aspectRatio string, item WorkItem) MediaResult {
	result := MediaResult{
		Shot:   item.Shot,
		Prompt: item.Prompt,
		Model:  profile.ID,
	}
	if err := ValidateWorkItem(item); err != nil {
		result.Error = err.Error()
		return result
	}

	in := GenerateInput{
		Prompt:          TruncatePrompt(item.Prompt),
		AspectRatio:     firstNonEmpty(item.AspectRatio, aspectRatio),
		DurationSeconds: profile.DefaultSeconds,
	}
	if conditionVideoOnImage(mode, profile, item.SourceImage) {
		in.SourceImagePath = item.SourceImage
	}

	start := time.Now()
	retryOpts := e.retry
	if retryOpts.Retryable == nil {
		retryOpts.Retryable = func(err error) bool { return !IsRateLimited(err.Error()) }
	}
	var out *GenerateOutput
	err := retry.Do(ctx, retryOpts, func() error {
		var callErr error
		out, callErr = e.client.Generate(ctx, profile.Model, in)
		return callErr
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if out == nil {
		result.Error = "provider returned no video output"
		return result
	}

	asset := out.Asset
	if asset == nil && out.Job != nil {
		asset, err = e.awaitJob(ctx, out.Job.ID)
		if err != nil {
			result.Error = err.Error()
			return result
		}
	}
	if asset == nil {
		result.Error = "provider returned neither an asset nor a job handle"
		return result
	}

	localPath, url, err := e.assets.SaveAsset(ctx, asset, "mp4")
	if err != nil {
		result.Error = err.Error()
		return result
	}
	seconds := asset.Seconds
	if seconds == 0 {
		seconds = float64(profile.DefaultSeconds)
	}
	result.LocalPath = localPath
	result.URL = url
	result.Seconds = seconds
	result.Cost = seconds * profile.CostPerSecond
	result.Elapsed = time.Since(start).Seconds()
	return result
}

// awaitJob polls an asynchronous operation until it completes, fails, or
// the attempt budget is exhausted.
func (e *VideoExecutor) awaitJob(ctx context.Context, jobID string) (*Asset, error) {
	for attempt := 0; attempt < e.pollAttempts; attempt++ {
		if err := e.sleep(ctx, e.pollInterval); err != nil {
			return nil, err
		}
		status, err := e.client.PollStatus(ctx, jobID)
		if err != nil {
			// Transient poll errors count against the attempt budget.
			e.logger.Debug("video status poll failed", "job", jobID, "error", err)
			continue
		}
		switch status.Status {
		case "completed":
			if status.Asset == nil {
				return nil, fmt.Errorf("video job %s completed without an asset", jobID)
			}
			return status.Asset, nil
		case "failed":
			reason := status.FailureReason
			if reason == "" {
				reason = "unknown failure"
			}
			return nil, fmt.Errorf("video generation failed: %s", reason)
		}
	}
	return nil, fmt.Errorf("video job %s did not complete within %s",
		jobID, time.Duration(e.pollAttempts)*e.pollInterval)
}

func conditionVideoOnImage(mode ConditioningMode, profile VideoProfile, sourceImage string) bool {
	if !profile.SupportsImage || sourceImage == "" {
		return false
	}
	switch mode {
	case ModeImage:
		return true
	case ModeAuto:
		_, err := os.Stat(sourceImage)
		return err == nil
	default:
		return false
	}
}
