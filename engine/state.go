package engine

import (
	"fmt"
	"regexp"

	"github.com/marcusg999/open-agent-builder/llm"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// State is the shared run state. It is created fresh per run and discarded
// at run end; nothing here is persisted.
type State struct {
	// Variables maps variable names to values set by the input payload,
	// start node defaults and node outputs.
	Variables map[string]any

	// LastOutput is the previous node's result, untyped.
	LastOutput any

	// ChatHistory is the ordered conversation accumulated by agent nodes.
	ChatHistory []llm.Message
}

// NewState creates run state seeded with the input payload.
func NewState(input map[string]any) *State {
	variables := make(map[string]any, len(input))
	for k, v := range input {
		variables[k] = v
	}
	return &State{Variables: variables}
}

// SetVariable stores a value under the given name when name is non-empty.
func (s *State) SetVariable(name string, value any) {
	if name == "" {
		return
	}
	s.Variables[name] = value
}

// AppendMessage adds a message to the chat history.
func (s *State) AppendMessage(role llm.Role, content string) {
	s.ChatHistory = append(s.ChatHistory, llm.Message{Role: role, Content: content})
}

// Interpolate replaces {{name}} placeholders in text with the string form
// of the named variable. Unknown names are left untouched.
func (s *State) Interpolate(text string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := s.Variables[name]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", value)
	})
}
