package llm

import "context"

// GenerationRequest is one system + user exchange. Providers must ask the
// model for a JSON object response.
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

type Provider interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
