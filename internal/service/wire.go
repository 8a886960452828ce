package service

import (
	"context"
	"fmt"

	"pdfquiz/internal/adapter/llm"
	"pdfquiz/internal/config"
	"pdfquiz/internal/prompt"
	"pdfquiz/internal/salience"
	"pdfquiz/internal/validation"
)

// NewQuizPipelineFromConfig builds the pipeline with LexRank, the prompt template,
// the configured model provider and the quiz validator.
func NewQuizPipelineFromConfig(ctx context.Context, cfg *config.Config) (*QuizPipeline, error) {
	extractor, err := salience.NewLexRank(cfg.Salience)
	if err != nil {
		return nil, fmt.Errorf("failed to create sentence extractor: %w", err)
	}

	model, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// The validator expects the size the prompt actually asks for.
	builder := prompt.NewBuilder(cfg.Generation.QuizSize)
	return NewQuizPipeline(
		extractor,
		builder,
		model,
		validation.NewQuizValidator(builder.QuizSize(), cfg.Generation.EnforceQuizSize),
		cfg.Generation.SentenceCount,
	), nil
}
