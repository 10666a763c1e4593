package engine

import (
	"context"

	"github.com/marcusg999/open-agent-builder/config"
	"github.com/marcusg999/open-agent-builder/media"
	"github.com/marcusg999/open-agent-builder/slogger"
)

// ToolFunc implements one named tool invocable from a tool node.
type ToolFunc func(ctx context.Context, params map[string]any, state *State) (any, error)

// ToolRegistry maps tool names to implementations.
type ToolRegistry struct {
	tools map[string]ToolFunc
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]ToolFunc)}
}

// Register adds or replaces a tool.
func (r *ToolRegistry) Register(name string, fn ToolFunc) {
	r.tools[name] = fn
}

// Get returns a tool by name.
func (r *ToolRegistry) Get(name string) (ToolFunc, bool) {
	fn, ok := r.tools[name]
	return fn, ok
}

// Builtin media tool names.
const (
	ToolGenerateImages = "generate_images"
	ToolGenerateVideos = "generate_videos"
)

// registerMediaTools wires the media batch executors into the tool
// registry. Each tool normalizes the previous node's output into work
// items, so media nodes compose directly after planning agents or earlier
// image batches. When an executor is absent the tool is registered as a
// credential guard, so a media node without provider credentials aborts
// with a ConfigError before any provider call.
func registerMediaTools(registry *ToolRegistry, images *media.ImageExecutor, videos *media.VideoExecutor) {
	if images == nil {
		registry.Register(ToolGenerateImages, missingCredentials(
			"image generation requires a media provider; set GOOGLE_API_KEY or OPENAI_API_KEY"))
	} else {
		registry.Register(ToolGenerateImages, func(ctx context.Context, params map[string]any, state *State) (any, error) {
			return images.Execute(ctx, media.ImageRequest{
				Items:       media.Normalize(state.LastOutput),
				ProfileID:   stringParam(params, "model"),
				Mode:        media.ConditioningMode(stringParam(params, "mode")),
				AspectRatio: stringParam(params, "aspectRatio"),
			})
		})
	}
	if videos == nil {
		registry.Register(ToolGenerateVideos, missingCredentials(
			"video generation requires a media provider; set GOOGLE_API_KEY"))
	} else {
		registry.Register(ToolGenerateVideos, func(ctx context.Context, params map[string]any, state *State) (any, error) {
			return videos.Execute(ctx, media.VideoRequest{
				Items:       media.Normalize(state.LastOutput),
				ProfileID:   stringParam(params, "model"),
				Mode:        media.ConditioningMode(stringParam(params, "mode")),
				AspectRatio: stringParam(params, "aspectRatio"),
				Stitch:      boolParam(params, "stitch", true),
			})
		})
	}
}

// missingCredentials serves a media tool whose provider has no configured
// credentials.
func missingCredentials(message string) ToolFunc {
	return func(ctx context.Context, params map[string]any, state *State) (any, error) {
		slogger.Ctx(ctx).Warn("media tool invoked without provider credentials")
		return nil, &config.ConfigError{Message: message}
	}
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func boolParam(params map[string]any, key string, fallback bool) bool {
	if params == nil {
		return fallback
	}
	if b, ok := params[key].(bool); ok {
		return b
	}
	return fallback
}
