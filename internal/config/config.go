// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the engine configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Inference
	Provider        string  `json:"provider,omitempty"`         // "ollama" or "gemini"
	OllamaBaseURL   string  `json:"ollama_base_url,omitempty"`  // Ollama server address
	Model           string  `json:"model,omitempty"`            // Primary generation model
	EmbedModel      string  `json:"embed_model,omitempty"`      // Embedding model
	APIKey          string  `json:"api_key,omitempty"`          // Gemini API key
	TimeoutSeconds  int     `json:"timeout_seconds,omitempty"`  // Per-call timeout
	PacingMillis    int     `json:"pacing_millis,omitempty"`    // Delay between inference calls
	MaxChunkLen     int     `json:"max_chunk_len,omitempty"`    // Chunk size limit in characters
	Temperature     float64 `json:"temperature,omitempty"`      // Generation temperature
	HeuristicOnly   bool    `json:"heuristic_only,omitempty"`   // Skip model-driven extraction entirely
	ReinforceMemory string  `json:"reinforce_memory,omitempty"` // Path to the reinforcement memory log

	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	DryRun      bool   `json:"dry_run,omitempty"`      // Skip persistence, print the result instead

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv overlays environment variables onto the configuration.
// Environment values win over file values.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("VOFC_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		c.OllamaBaseURL = v
	}
	if v := os.Getenv("VOFC_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("VOFC_EMBED_MODEL"); v != "" {
		c.EmbedModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("VOFC_MEMORY_PATH"); v != "" {
		c.ReinforceMemory = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Provider != "" && c.Provider != "ollama" && c.Provider != "gemini" {
		return fmt.Errorf("config error: 'provider' must be \"ollama\" or \"gemini\"")
	}
	if c.Provider == "gemini" && c.APIKey == "" && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("config error: gemini provider requires 'api_key'")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.PacingMillis < 0 {
		return fmt.Errorf("config error: 'pacing_millis' must be non-negative")
	}
	if c.MaxChunkLen < 0 {
		return fmt.Errorf("config error: 'max_chunk_len' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	return nil
}
