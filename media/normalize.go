package media

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPrompt is used when no usable prompt can be recovered from an
// upstream value.
const DefaultPrompt = "A cinematic establishing shot, high detail"

// Normalize converts an arbitrary prior-node output into a non-empty,
// ordered work item sequence. It is total and deterministic: every input
// produces at least one item and no input panics.
//
// Matchers are tried in priority order until one produces items:
//
//  1. image batch output (native *BatchResult or a map with an "images"
//     array): successful entries become image-conditioned items
//  2. a sequence: each element mapped, stringified when it has no prompt
//  3. an object with an "imagePrompts" array (planning-stage output)
//  4. any other object: first array property whose first element carries a
//     "prompt" key, else the object's own "prompt" key
//  5. a string: fenced markdown blocks when present, else the whole text
//  6. a single placeholder item
func Normalize(value any) []WorkItem {
	for _, match := range matchers {
		if items, ok := match(value); ok && len(items) > 0 {
			return items
		}
	}
	return []WorkItem{{Shot: 1, Prompt: DefaultPrompt}}
}

type matcher func(value any) ([]WorkItem, bool)

var matchers = []matcher{
	matchBatchResult,
	matchWorkItems,
	matchImageBatchMap,
	matchSequence,
	matchImagePrompts,
	matchObject,
	matchString,
}

func matchBatchResult(value any) ([]WorkItem, bool) {
	batch, ok := value.(*BatchResult)
	if !ok {
		return nil, false
	}
	var items []WorkItem
	for i, result := range batch.Results {
		if !result.OK() {
			continue
		}
		shot := result.Shot
		if shot == 0 {
			shot = i + 1
		}
		items = append(items, WorkItem{
			Shot:        shot,
			Prompt:      result.Prompt,
			SourceImage: result.LocalPath,
		})
	}
	return items, len(items) > 0
}

func matchWorkItems(value any) ([]WorkItem, bool) {
	items, ok := value.([]WorkItem)
	return items, ok && len(items) > 0
}

// matchImageBatchMap handles serialized image-batch output: a map with an
// "images" array whose successful entries carry a local path.
func matchImageBatchMap(value any) ([]WorkItem, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	images, ok := obj["images"].([]any)
	if !ok {
		return nil, false
	}
	var items []WorkItem
	for i, entry := range images {
		image, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if success, ok := image["success"].(bool); !ok || !success {
			continue
		}
		localPath := stringField(image, "localPath", "local_path")
		if localPath == "" {
			continue
		}
		item := WorkItem{
			Shot:        intField(image, "shot"),
			Prompt:      stringField(image, "originalPrompt", "original_prompt", "prompt"),
			SourceImage: localPath,
			AspectRatio: stringField(image, "aspectRatio", "aspect_ratio"),
		}
		if item.Shot == 0 {
			item.Shot = i + 1
		}
		if item.Prompt == "" {
			item.Prompt = DefaultPrompt
		}
		items = append(items, item)
	}
	return items, len(items) > 0
}

func matchSequence(value any) ([]WorkItem, bool) {
	seq, ok := value.([]any)
	if !ok || len(seq) == 0 {
		return nil, false
	}
	items := make([]WorkItem, 0, len(seq))
	for i, element := range seq {
		items = append(items, itemFromElement(element, i))
	}
	return items, true
}

func matchImagePrompts(value any) ([]WorkItem, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	prompts, ok := obj["imagePrompts"].([]any)
	if !ok || len(prompts) == 0 {
		return nil, false
	}
	items := make([]WorkItem, 0, len(prompts))
	for i, element := range prompts {
		items = append(items, itemFromElement(element, i))
	}
	return items, true
}

// matchObject scans an object's properties for the first array whose
// first element is an object with a "prompt" key. Properties are visited
// in sorted key order: Go maps have no defined enumeration order and the
// scan must stay deterministic. Falls back to the object's own "prompt".
func matchObject(value any) ([]WorkItem, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		seq, ok := obj[key].([]any)
		if !ok || len(seq) == 0 {
			continue
		}
		first, ok := seq[0].(map[string]any)
		if !ok {
			continue
		}
		if _, hasPrompt := first["prompt"]; !hasPrompt {
			continue
		}
		items := make([]WorkItem, 0, len(seq))
		for i, element := range seq {
			items = append(items, itemFromElement(element, i))
		}
		return items, true
	}
	if prompt := stringField(obj, "prompt"); prompt != "" {
		return []WorkItem{{
			Shot:        1,
			Prompt:      prompt,
			SourceImage: stringField(obj, "sourceImage", "source_image", "imagePath"),
			AspectRatio: stringField(obj, "aspectRatio", "aspect_ratio"),
		}}, true
	}
	return nil, false
}

func matchString(value any) ([]WorkItem, bool) {
	text, ok := value.(string)
	if !ok {
		return nil, false
	}
	if strings.Contains(text, "```") {
		if items := ExtractShotPrompts(text); len(items) > 0 {
			return items, true
		}
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	return []WorkItem{{Shot: 1, Prompt: trimmed}}, true
}

// itemFromElement maps one sequence element to a work item. Elements
// without a prompt field are stringified.
func itemFromElement(element any, index int) WorkItem {
	item := WorkItem{Shot: index + 1}
	switch v := element.(type) {
	case WorkItem:
		item = v
		if item.Shot == 0 {
			item.Shot = index + 1
		}
	case map[string]any:
		if prompt := stringField(v, "prompt"); prompt != "" {
			item.Prompt = prompt
			if shot := intField(v, "shot", "shotNumber", "shot_number"); shot > 0 {
				item.Shot = shot
			}
			item.SourceImage = stringField(v, "sourceImage", "source_image", "imagePath")
			item.AspectRatio = stringField(v, "aspectRatio", "aspect_ratio")
		} else {
			item.Prompt = fmt.Sprintf("%v", v)
		}
	case string:
		item.Prompt = v
	default:
		item.Prompt = fmt.Sprintf("%v", v)
	}
	if strings.TrimSpace(item.Prompt) == "" {
		item.Prompt = DefaultPrompt
	}
	return item
}

func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(obj map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return 0
}
