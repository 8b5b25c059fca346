package correct

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient calls an OpenAI-compatible chat completion endpoint as the
// correction oracle. Implements the Oracle interface.
type OpenAIClient struct {
	client *openai.Client
	model  string // e.g. "gpt-4o-mini"
}

// NewOpenAIClient creates a chat completion oracle. baseURL may be empty for
// the official API, or point at any OpenAI-compatible server.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Name returns the oracle name.
func (o *OpenAIClient) Name() string { return "openai" }

// Model returns the configured model identifier.
func (o *OpenAIClient) Model() string { return o.model }

// Generate sends the prompt as a single user message and returns the first
// choice's content. No choices yields an empty string, not an error.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
