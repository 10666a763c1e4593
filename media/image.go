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
	// MaxImageBatch is the hard cap on items per image batch.
	MaxImageBatch = 20

	imagePace     = 1 * time.Second
	imageCooldown = 10 * time.Second
)

// ConditioningMode selects between image-conditioned and text-only
// generation.
type ConditioningMode string

const (
	// ModeAuto conditions on the source image when its path exists on
	// disk, and falls back to text-only otherwise.
	ModeAuto ConditioningMode = "auto"

	// ModeImage always requests image-conditioned generation.
	ModeImage ConditioningMode = "image"

	// ModeText always requests text-only generation.
	ModeText ConditioningMode = "text"
)

// ImageRequest is one image batch.
type ImageRequest struct {
	Items       []WorkItem
	ProfileID   string
	Mode        ConditioningMode
	AspectRatio string
}

// ImageExecutorOptions configures an ImageExecutor.
type ImageExecutorOptions struct {
	Client   ProviderClient
	Registry *Registry
	Assets   *AssetStore
	Logger   slogger.Logger

	// Pace and Cooldown override the default inter-call delay and
	// rate-limit cool-down. Used by tests.
	Pace     time.Duration
	Cooldown time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error

	// Retry configures per-call retry behavior for transient provider
	// errors. Rate-limit errors are never retried in place; they trigger
	// the cool-down instead.
	Retry retry.Options
}

// ImageExecutor processes image batches strictly sequentially, pacing
// calls to respect provider rate limits and bound spend. Per-item errors
// are recorded, never raised.
type ImageExecutor struct {
	client   ProviderClient
	registry *Registry
	assets   *AssetStore
	logger   slogger.Logger
	pace     time.Duration
	cooldown time.Duration
	sleep    sleeper
	retry    retry.Options
}

// NewImageExecutor creates an image batch executor.
func NewImageExecutor(opts ImageExecutorOptions) (*ImageExecutor, error) {
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
		opts.Pace = imagePace
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = imageCooldown
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &ImageExecutor{
		client:   opts.Client,
		registry: opts.Registry,
		assets:   opts.Assets,
		logger:   opts.Logger,
		pace:     opts.Pace,
		cooldown: opts.Cooldown,
		sleep:    opts.Sleep,
		retry:    opts.Retry,
	}, nil
}

// Execute runs the batch. The returned error is non-nil only for fatal
// configuration problems detected before any provider call.
func (e *ImageExecutor) Execute(ctx context.Context, req ImageRequest) (*BatchResult, error) {
	profile, err := e.registry.ImageProfile(req.ProfileID)
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
	if len(items) > MaxImageBatch {
		items = items[:MaxImageBatch]
		batch.Truncated = true
		e.logger.Warn("image batch truncated",
			"requested", batch.Requested, "cap", MaxImageBatch)
	}

	log := e.logger.With("profile", profile.ID, "items", len(items))
	log.Info("starting image batch")

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
			log.Warn("image generation failed", "shot", item.Shot, "error", result.Error)
			if IsRateLimited(result.Error) {
				log.Warn("rate limited, cooling down", "wait", e.cooldown)
				if err := e.sleep(ctx, e.cooldown); err != nil {
					return batch, err
				}
			}
		}
	}

	log.Info("image batch complete",
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
		"estimated_cost", batch.EstimatedCost)
	return batch, nil
}

func (e *ImageExecutor) generateOne(ctx context.Context, profile ImageProfile, mode ConditioningMode, aspectRatio string, item WorkItem) MediaResult {
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
		Prompt:      TruncatePrompt(item.Prompt),
		AspectRatio: firstNonEmpty(item.AspectRatio, aspectRatio),
		Steps:       profile.DefaultSteps,
		Quality:     profile.Quality,
	}
	if conditionOnImage(mode, profile, item.SourceImage) {
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
	if out == nil || out.Asset == nil {
		result.Error = "provider returned no image asset"
		return result
	}

	localPath, url, err := e.assets.SaveAsset(ctx, out.Asset, "png")
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.LocalPath = localPath
	result.URL = url
	result.Cost = profile.CostPerImage
	result.Elapsed = time.Since(start).Seconds()
	return result
}

// conditionOnImage decides between image-conditioned and text-only
// generation for one item.
func conditionOnImage(mode ConditioningMode, profile ImageProfile, sourceImage string) bool {
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
