package llm

import (
	"context"
	"fmt"

	openaiapi "github.com/openai/openai-go"
)

// OpenAIClient implements Client using the OpenAI chat completions API.
type OpenAIClient struct {
	client       *openaiapi.Client
	defaultModel string
}

// NewOpenAIClient creates an OpenAI-backed chat client.
func NewOpenAIClient(client *openaiapi.Client, defaultModel string) *OpenAIClient {
	if defaultModel == "" {
		defaultModel = "gpt-4o"
	}
	return &OpenAIClient{client: client, defaultModel: defaultModel}
}

func (c *OpenAIClient) Generate(ctx context.Context, model string, messages []Message) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("openai client is not initialized")
	}
	if model == "" {
		model = c.defaultModel
	}
	params := openaiapi.ChatCompletionNewParams{
		Model:    openaiapi.ChatModel(model),
		Messages: make([]openaiapi.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, message := range messages {
		switch message.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openaiapi.SystemMessage(message.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openaiapi.AssistantMessage(message.Content))
		default:
			params.Messages = append(params.Messages, openaiapi.UserMessage(message.Content))
		}
	}
	response, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return response.Choices[0].Message.Content, nil
}
