package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Provider is one candidate backend in the analyzer's fallback chain.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiProvider struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiProviders returns one provider per model, preserving order.
func NewGeminiProviders(client *genai.Client, modelNames []string) []Provider {
	providers := make([]Provider, 0, len(modelNames))
	for _, name := range modelNames {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		providers = append(providers, &geminiProvider{
			client:      client,
			modelName:   name,
			temperature: 0.3,
		})
	}
	return providers
}

// Name implements Provider.
func (g *geminiProvider) Name() string {
	return g.modelName
}

// GenerateText implements Provider.
func (g *geminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     &g.temperature,
		MaxOutputTokens: 8192,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("no text content in response")
	}

	return text, nil
}
