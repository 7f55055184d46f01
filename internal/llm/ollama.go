package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaClient implements Client against the Ollama HTTP API
// (/api/generate and /api/embeddings).
type OllamaClient struct {
	client     *http.Client
	baseURL    string
	model      string
	embedModel string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

// ollamaOptions holds generation parameters.
type ollamaOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// embedRequest is the Ollama /api/embeddings request format.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse is the Ollama /api/embeddings response format.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(config *Config) *OllamaClient {
	config = config.withDefaults()
	return &OllamaClient{
		client:     &http.Client{Timeout: config.Timeout},
		baseURL:    config.BaseURL,
		model:      config.Model,
		embedModel: config.EmbedModel,
	}
}

// Generate produces a text completion for a prompt.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	reqBody := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}
	if opts.NumPredict > 0 || opts.Temperature > 0 {
		reqBody.Options = &ollamaOptions{
			NumPredict:  opts.NumPredict,
			Temperature: opts.Temperature,
		}
	}

	var genResp generateResponse
	if err := c.post(ctx, "/api/generate", reqBody, &genResp); err != nil {
		return "", err
	}
	return genResp.Response, nil
}

// Embed returns one embedding vector per text. Ollama has no batch endpoint,
// so each text is a separate call; a failed call yields an empty vector in
// its position so downstream similarity math stays defined.
func (c *OllamaClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		var embResp embedResponse
		if err := c.post(ctx, "/api/embeddings", embedRequest{Model: c.embedModel, Prompt: text}, &embResp); err != nil {
			vectors[i] = nil
			continue
		}
		vectors[i] = embResp.Embedding
	}
	return vectors, nil
}

// post sends a JSON request and decodes a JSON response.
func (c *OllamaClient) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ModelName returns the configured default generation model.
func (c *OllamaClient) ModelName() string {
	return c.model
}

// Close releases resources held by the client.
func (c *OllamaClient) Close() error {
	return nil
}
