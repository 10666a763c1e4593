package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("WORKFLOWS_DIR", "")
	t.Setenv("FFMPEG_PATH", "")

	cfg := Load()
	require.Equal(t, "data/workflows", cfg.WorkflowsDir)
	require.Equal(t, "public/assets/generated", cfg.AssetsDir)
	require.Equal(t, "ffmpeg", cfg.FFmpegPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "gpt-4o", cfg.DefaultModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKFLOWS_DIR", "/var/lib/workflows")
	t.Setenv("FFMPEG_PATH", "/usr/local/bin/ffmpeg")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	require.Equal(t, "/var/lib/workflows", cfg.WorkflowsDir)
	require.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpegPath)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestRequireKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	cfg := Load()

	err := cfg.RequireOpenAI()
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	require.Equal(t, "OPENAI_API_KEY", configErr.Key)
	require.ErrorContains(t, cfg.RequireGoogle(), "GOOGLE_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	require.NoError(t, Load().RequireOpenAI())
}
