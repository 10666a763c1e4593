package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractShotPromptsFilters(t *testing.T) {
	markdown := strings.Join([]string{
		"# Shot plan",
		"```",
		"too short",
		"```",
		"```",
		"A beautiful mountain vista at sunrise. Negative Prompt: blurry, low quality, oversaturated colors.",
		"```",
		"```",
		"A lone astronaut walks across a red desert plain toward a distant crashed spacecraft at golden hour.",
		"```",
	}, "\n")

	items := ExtractShotPrompts(markdown)
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Shot)
	require.Contains(t, items[0].Prompt, "lone astronaut")
}

func TestExtractShotPromptsTechnicalSpecifications(t *testing.T) {
	markdown := "```\nTechnical Specifications: 4K resolution, 24fps, anamorphic lenses, shallow depth of field settings.\n```\n" +
		"```\nA slow dolly shot through a neon-lit alley in the rain, reflections shimmering on the wet pavement.\n```"
	items := ExtractShotPrompts(markdown)
	require.Len(t, items, 1)
	require.Contains(t, items[0].Prompt, "dolly shot")
}

func TestExtractShotPromptsSequentialNumbering(t *testing.T) {
	long := "A sweeping aerial view of a coastal village, waves crashing against the cliffs below at dawn."
	markdown := "```text\n" + long + "\n```\n```text\n" + long + " Second variant.\n```"
	items := ExtractShotPrompts(markdown)
	require.Len(t, items, 2)
	require.Equal(t, 1, items[0].Shot)
	require.Equal(t, 2, items[1].Shot)
}

func TestExtractShotPromptsLanguageTag(t *testing.T) {
	markdown := "```prompt\nAn ancient library lit by floating lanterns, dust motes drifting through beams of light.\n```"
	items := ExtractShotPrompts(markdown)
	require.Len(t, items, 1)
	require.False(t, strings.Contains(items[0].Prompt, "prompt\n"))
}

func TestExtractShotPromptsNoBlocks(t *testing.T) {
	require.Empty(t, ExtractShotPrompts("no fences here"))
}
