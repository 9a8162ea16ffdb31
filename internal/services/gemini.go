package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/ai-interview-platform/internal/config"
)

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
	// GenerateJSONWithRetry asks the model for an application/json response.
	GenerateJSONWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

var errEmptyResponse = errors.New("no text content in response")

type geminiService struct {
	client       *genai.Client
	textModel    string
	embedModel   string
	textBreaker  *Breaker[*genai.GenerateContentResponse]
	embedBreaker *Breaker[*genai.EmbedContentResponse]
	retryDelay   time.Duration
	logger       *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

func NewGeminiService(client *genai.Client, cfg config.GeminiConfig, retryDelay time.Duration, logger *zap.Logger) GeminiService {
	return &geminiService{
		client:       client,
		textModel:    cfg.TextModel,
		embedModel:   cfg.EmbeddingModel,
		textBreaker:  NewBreaker[*genai.GenerateContentResponse]("text", cfg.Breaker, logger),
		embedBreaker: NewBreaker[*genai.EmbedContentResponse]("embed", cfg.Breaker, logger),
		retryDelay:   retryDelay,
		logger:       logger,
	}
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// embedding input is capped around 10k tokens
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.embedBreaker.Execute(func() (*genai.EmbedContentResponse, error) {
		return g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	})
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return withRetry(ctx, g.retryPolicy(maxRetries), "generate text", func() (string, error) {
		return g.GenerateText(ctx, prompt, temperature)
	})
}

// GenerateJSONWithRetry implements GeminiService.
func (g *geminiService) GenerateJSONWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}
	return withRetry(ctx, g.retryPolicy(maxRetries), "generate json", func() (string, error) {
		return g.generate(ctx, prompt, cfg)
	})
}

func (g *geminiService) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.textBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), cfg)
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 {
			return "", fmt.Errorf("%w (finish reason: %s)", errEmptyResponse, resp.Candidates[0].FinishReason)
		}
		return "", errEmptyResponse
	}

	g.logger.Debug("Gemini response received",
		zap.String("model", g.textModel),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)))

	return text, nil
}

func (g *geminiService) retryPolicy(maxRetries int) retryPolicy {
	return retryPolicy{
		maxAttempts:  maxRetries,
		initialDelay: g.retryDelay,
		logger:       g.logger,
	}
}
