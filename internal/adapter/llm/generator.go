// Package llm adapts langchaingo models to domain.TextGenerator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pdfquiz/internal/config"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Client sends one prompt per call and returns the model text untouched.
type Client struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
}

var _ domain.TextGenerator = (*Client)(nil)

func NewClient(model llms.Model, cfg config.LLMConfig) *Client {
	return &Client{
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

// NewFromConfig builds the provider named by cfg.Provider.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (*Client, error) {
	model, err := newModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Generation client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return NewClient(model, cfg), nil
}

func newModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		if cfg.APIKey == "" {
			return nil, errors.New("gemini API key cannot be empty")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("openai API key cannot be empty")
		}
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// Generate returns the raw completion. Every provider failure, including a timeout,
// becomes an LLM service error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(c.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Duration("timeout", c.timeout), zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	l.Debug("Raw LLM response received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("length", len(response)))
	return response, nil
}
