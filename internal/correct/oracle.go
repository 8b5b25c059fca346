package correct

import "context"

// Oracle is the interface for text-correction backends.
type Oracle interface {
	// Generate sends a prompt and returns the model's text response.
	// An empty response string with a nil error is a valid outcome.
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string  // "gemini", "openai"
	Model() string // model identifier for logs
}
