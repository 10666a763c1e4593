package media

import "strings"

// minShotPromptLength filters out fenced blocks too short to be a real
// shot prompt.
const minShotPromptLength = 50

// ExtractShotPrompts pulls shot prompts out of fenced code blocks in a
// markdown document. Blocks are scanned in source order; a block is
// discarded when it contains "negative prompt:" or "technical
// specifications" (case-insensitive) or its trimmed length is under 50
// characters. Surviving blocks receive sequential shot numbers starting
// at 1.
func ExtractShotPrompts(markdown string) []WorkItem {
	var items []WorkItem
	for _, block := range fencedBlocks(markdown) {
		trimmed := strings.TrimSpace(block)
		if len(trimmed) < minShotPromptLength {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "negative prompt:") || strings.Contains(lower, "technical specifications") {
			continue
		}
		items = append(items, WorkItem{
			Shot:   len(items) + 1,
			Prompt: trimmed,
		})
	}
	return items
}

// fencedBlocks returns the contents of triple-backtick fenced blocks in
// source order. An opening fence may carry a language tag, which is not
// part of the block content.
func fencedBlocks(markdown string) []string {
	var blocks []string
	var current []string
	inBlock := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
			inBlock = !inBlock
			continue
		}
		if inBlock {
			current = append(current, line)
		}
	}
	return blocks
}
