package ai

import "context"

// Provider defines the interface for LLM providers used by the enricher.
// Generation quality is not a contract anywhere in the pipeline; output
// always passes through the content validators before attachment, and any
// provider failure degrades to templated content.
type Provider interface {
	Name() string
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig holds configuration for a provider
type ProviderConfig struct {
	Name          string
	BaseURL       string
	APIKey        string
	TextModel     string
	MaxContentLen int
}
