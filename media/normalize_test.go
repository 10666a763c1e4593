package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeImageBatchOutput(t *testing.T) {
	batch := &BatchResult{
		Results: []MediaResult{
			{Prompt: "a castle", LocalPath: "/tmp/a.png", URL: "/assets/a.png"},
			{Prompt: "a dragon", Error: "provider exploded"},
			{Prompt: "a knight", LocalPath: "/tmp/c.png", URL: "/assets/c.png"},
		},
	}
	items := Normalize(batch)
	require.Len(t, items, 2)
	require.Equal(t, "a castle", items[0].Prompt)
	require.Equal(t, "/tmp/a.png", items[0].SourceImage)
	require.Equal(t, 1, items[0].Shot)
	require.Equal(t, "a knight", items[1].Prompt)
	require.Equal(t, 3, items[1].Shot)
}

func TestNormalizeImageBatchMap(t *testing.T) {
	value := map[string]any{
		"images": []any{
			map[string]any{
				"success":        true,
				"localPath":      "/tmp/one.png",
				"originalPrompt": "first shot",
			},
			map[string]any{
				"success": false,
				"error":   "rate limit",
			},
			map[string]any{
				"success":   true,
				"localPath": "/tmp/three.png",
			},
		},
	}
	items := Normalize(value)
	require.Len(t, items, 2)
	require.Equal(t, "first shot", items[0].Prompt)
	require.Equal(t, "/tmp/one.png", items[0].SourceImage)
	require.Equal(t, 1, items[0].Shot)
	require.Equal(t, 3, items[1].Shot)
	require.Equal(t, DefaultPrompt, items[1].Prompt)
}

func TestNormalizeSequence(t *testing.T) {
	items := Normalize([]any{
		map[string]any{"prompt": "wide shot", "shot": float64(7)},
		"just a string",
		map[string]any{"caption": "no prompt field"},
		42,
	})
	require.Len(t, items, 4)
	require.Equal(t, "wide shot", items[0].Prompt)
	require.Equal(t, 7, items[0].Shot)
	require.Equal(t, "just a string", items[1].Prompt)
	require.Equal(t, 2, items[1].Shot)
	// Elements without a prompt field are stringified
	require.Contains(t, items[2].Prompt, "no prompt field")
	require.Equal(t, "42", items[3].Prompt)
}

func TestNormalizeImagePrompts(t *testing.T) {
	value := map[string]any{
		"title": "plan",
		"imagePrompts": []any{
			map[string]any{"prompt": "shot one"},
			map[string]any{"prompt": "shot two"},
		},
	}
	items := Normalize(value)
	require.Len(t, items, 2)
	require.Equal(t, "shot one", items[0].Prompt)
	require.Equal(t, 2, items[1].Shot)
}

func TestNormalizeObjectScan(t *testing.T) {
	value := map[string]any{
		"notes": "irrelevant",
		"shots": []any{
			map[string]any{"prompt": "найденный"},
			map[string]any{"prompt": "second"},
		},
	}
	items := Normalize(value)
	require.Len(t, items, 2)
	require.Equal(t, "найденный", items[0].Prompt)
}

func TestNormalizeObjectOwnPrompt(t *testing.T) {
	items := Normalize(map[string]any{"prompt": "solo prompt", "aspectRatio": "16:9"})
	require.Len(t, items, 1)
	require.Equal(t, "solo prompt", items[0].Prompt)
	require.Equal(t, "16:9", items[0].AspectRatio)
	require.Equal(t, 1, items[0].Shot)
}

func TestNormalizePlainString(t *testing.T) {
	items := Normalize("a lone rider crossing the desert at dusk")
	require.Len(t, items, 1)
	require.Equal(t, "a lone rider crossing the desert at dusk", items[0].Prompt)
}

func TestNormalizeFallback(t *testing.T) {
	for _, value := range []any{nil, 3.14, true, map[string]any{}, ""} {
		items := Normalize(value)
		require.Len(t, items, 1)
		require.Equal(t, DefaultPrompt, items[0].Prompt)
		require.Equal(t, 1, items[0].Shot)
	}
}

func TestNormalizeNeverEmpty(t *testing.T) {
	// Every supported shape yields a non-empty ordered sequence
	inputs := []any{
		"text",
		"```\nshort\n```",
		[]any{"a"},
		map[string]any{"prompt": "p"},
		map[string]any{"x": 1},
		&BatchResult{},
		[]WorkItem{{Prompt: "native"}},
		struct{ X int }{X: 1},
	}
	for _, value := range inputs {
		items := Normalize(value)
		require.NotEmpty(t, items)
		for _, item := range items {
			require.NotEmpty(t, item.Prompt)
		}
	}
}
