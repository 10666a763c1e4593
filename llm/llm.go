// Package llm defines the chat completion contract used by agent nodes.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client generates a completion for an ordered message list.
type Client interface {
	Generate(ctx context.Context, model string, messages []Message) (string, error)
}
