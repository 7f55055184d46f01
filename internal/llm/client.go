package llm

import (
	"context"
	"fmt"
)

// GenerateOptions holds per-call generation parameters. A non-empty Model
// overrides the configured default, which is how the multi-model extraction
// pass addresses its validation and cross-check models.
type GenerateOptions struct {
	Model       string
	Temperature float64
	NumPredict  int
}

// Client is an abstraction over inference providers.
type Client interface {
	// Generate produces a text completion for a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	// Embed returns one embedding vector per input text. Providers without a
	// batch API issue one call per text. A failed or empty vector is returned
	// as an empty slice in its position rather than failing the whole batch.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// ModelName returns the configured default generation model.
	ModelName() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates an inference client based on configuration.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOllama:
		return NewOllamaClient(config), nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", config.Provider)
	}
}
