// Package llm provides the inference-collaborator client used by the
// extraction pipeline: text generation for structured extraction and text
// embedding for semantic linking. Ollama is the primary provider; Gemini is
// available as an alternative behind the same interface.
package llm

import "time"

// Provider represents an inference provider.
type Provider string

// Provider constants define supported inference providers.
const (
	// ProviderOllama is a local or remote Ollama instance.
	ProviderOllama Provider = "ollama"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Default configuration values for the Ollama provider.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "vofc-engine:latest"
	DefaultEmbedModel = "nomic-embed-text"
	DefaultTimeout    = 120 * time.Second
)

// Config holds the inference configuration for the pipeline.
type Config struct {
	Provider   Provider
	BaseURL    string // Ollama API base URL
	Model      string // default generation model
	EmbedModel string // embedding model
	APIKey     string // Gemini only
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration (local Ollama).
func DefaultConfig() *Config {
	return &Config{
		Provider:   ProviderOllama,
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		EmbedModel: DefaultEmbedModel,
		Timeout:    DefaultTimeout,
	}
}

// withDefaults fills unset fields with provider defaults.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Provider == "" {
		out.Provider = ProviderOllama
	}
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.Model == "" {
		out.Model = DefaultModel
	}
	if out.EmbedModel == "" {
		out.EmbedModel = DefaultEmbedModel
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}
