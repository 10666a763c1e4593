package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/marcusg999/open-agent-builder/slogger"
)

// StitchStatus is the outcome of a clip assembly.
type StitchStatus string

const (
	StitchSkipped StitchStatus = "skipped"
	StitchSuccess StitchStatus = "success"
	StitchFailed  StitchStatus = "failed"
)

// StitchResult describes the assembled deliverable, if any. Individual
// clip results remain usable regardless of the stitch outcome.
type StitchResult struct {
	Status    StitchStatus `json:"status"`
	LocalPath string       `json:"localPath,omitempty"`
	URL       string       `json:"url,omitempty"`
	Seconds   float64      `json:"seconds,omitempty"`
	Clips     int          `json:"clips"`
	Error     string       `json:"error,omitempty"`
}

// StitchError is a batch-level soft failure of clip assembly.
type StitchError struct {
	Message string
}

func (e *StitchError) Error() string {
	return e.Message
}

// Stitcher concatenates ordered video clips into one deliverable using
// ffmpeg's concat demuxer (a lossless remux).
type Stitcher struct {
	assets *AssetStore
	logger slogger.Logger
	ffmpeg string

	// run executes the media tool; tests substitute a fake.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// StitcherOptions configures a Stitcher.
type StitcherOptions struct {
	Assets     *AssetStore
	Logger     slogger.Logger
	FFmpegPath string
	Run        func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewStitcher creates a clip assembler.
func NewStitcher(opts StitcherOptions) *Stitcher {
	if opts.Logger == nil {
		opts.Logger = slogger.DefaultLogger
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.Run == nil {
		opts.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		}
	}
	return &Stitcher{
		assets: opts.Assets,
		logger: opts.Logger,
		ffmpeg: opts.FFmpegPath,
		run:    opts.Run,
	}
}

// Concat assembles the successful clips from results, in original order.
// Zero successes yields "skipped"; one success passes the clip through
// unchanged; two or more are concatenated. A tool failure yields "failed"
// with no deliverable.
func (s *Stitcher) Concat(ctx context.Context, results []MediaResult) *StitchResult {
	var clips []MediaResult
	for _, r := range results {
		if r.OK() {
			clips = append(clips, r)
		}
	}

	switch len(clips) {
	case 0:
		return &StitchResult{Status: StitchSkipped}
	case 1:
		return &StitchResult{
			Status:    StitchSuccess,
			LocalPath: clips[0].LocalPath,
			URL:       clips[0].URL,
			Seconds:   clips[0].Seconds,
			Clips:     1,
		}
	}

	result := &StitchResult{Clips: len(clips)}
	outPath, outURL, err := s.stitch(ctx, clips)
	if err != nil {
		s.logger.Error("clip assembly failed", "clips", len(clips), "error", err)
		result.Status = StitchFailed
		result.Error = (&StitchError{Message: err.Error()}).Error()
		return result
	}

	var total float64
	for _, clip := range clips {
		total += clip.Seconds
	}
	result.Status = StitchSuccess
	result.LocalPath = outPath
	result.URL = outURL
	result.Seconds = total
	s.logger.Info("clip assembly complete", "clips", len(clips), "seconds", total)
	return result
}

func (s *Stitcher) stitch(ctx context.Context, clips []MediaResult) (string, string, error) {
	if err := os.MkdirAll(s.assets.Dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	// The concat demuxer reads its inputs from a manifest file, which is
	// removed afterward regardless of outcome.
	manifest := filepath.Join(s.assets.Dir, "concat-"+uuid.NewString()+".txt")
	var list string
	for _, clip := range clips {
		list += fmt.Sprintf("file '%s'\n", clip.LocalPath)
	}
	if err := os.WriteFile(manifest, []byte(list), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write concat manifest: %w", err)
	}
	defer os.Remove(manifest)

	name := uuid.NewString() + ".mp4"
	outPath, err := filepath.Abs(filepath.Join(s.assets.Dir, name))
	if err != nil {
		return "", "", err
	}

	output, err := s.run(ctx, s.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c", "copy",
		outPath,
	)
	if err != nil {
		os.Remove(outPath)
		return "", "", fmt.Errorf("ffmpeg concat failed: %v: %s", err, string(output))
	}
	return outPath, s.assets.PublicPrefix + "/" + name, nil
}
