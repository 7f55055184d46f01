package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiEmbedModel is the Gemini embedding model used when the provider is
// Gemini; the configured EmbedModel names an Ollama model and does not apply.
const geminiEmbedModel = "text-embedding-004"

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for the Gemini provider")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate produces a text completion for a prompt.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	modelName := opts.Model
	if modelName == "" {
		modelName = c.config.Model
	}

	model := c.client.GenerativeModel(modelName)
	if opts.Temperature > 0 {
		model.SetTemperature(float32(opts.Temperature))
	} else {
		model.SetTemperature(0.1) // Low temperature for consistent output
	}
	if opts.NumPredict > 0 {
		model.SetMaxOutputTokens(int32(opts.NumPredict))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Embed returns one embedding vector per text. A failed call yields an empty
// vector in its position so downstream similarity math stays defined.
func (c *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	em := c.client.EmbeddingModel(geminiEmbedModel)
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		resp, err := em.EmbedContent(ctx, genai.Text(text))
		if err != nil || resp.Embedding == nil {
			vectors[i] = nil
			continue
		}
		vec := make([]float64, len(resp.Embedding.Values))
		for j, v := range resp.Embedding.Values {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// ModelName returns the configured default generation model.
func (c *GeminiClient) ModelName() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
