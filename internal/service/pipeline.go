package service

import (
	"context"
	"time"

	"pdfquiz/internal/corpus"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/logger"
	"pdfquiz/internal/recovery"

	"go.uber.org/zap"
)

// PromptBuilder renders the generation prompt.
type PromptBuilder interface {
	Build(sentences []string, difficulty domain.Difficulty) string
}

// QuizValidator turns a decoded model response into a quiz.
type QuizValidator interface {
	Validate(v any) (domain.Quiz, error)
}

// QuizPipeline runs aggregate -> extract -> prompt -> generate -> recover -> validate.
type QuizPipeline struct {
	extractor     domain.SentenceExtractor
	builder       PromptBuilder
	generator     domain.TextGenerator
	validator     QuizValidator
	sentenceCount int
}

// NewQuizPipeline wires the stages. sentenceCount is the k handed to the extractor;
// zero lets the extractor use its own default.
func NewQuizPipeline(
	extractor domain.SentenceExtractor,
	builder PromptBuilder,
	generator domain.TextGenerator,
	validator QuizValidator,
	sentenceCount int,
) *QuizPipeline {
	return &QuizPipeline{
		extractor:     extractor,
		builder:       builder,
		generator:     generator,
		validator:     validator,
		sentenceCount: sentenceCount,
	}
}

// Run produces a validated quiz from extracted documents. No model call is made when
// the documents contain no sentence.
func (p *QuizPipeline) Run(ctx context.Context, docs []domain.ExtractedDocument, difficulty domain.Difficulty) (domain.Quiz, error) {
	return p.RunCorpus(ctx, corpus.FromDocuments(docs), difficulty)
}

// RunCorpus is Run on an already aggregated corpus.
func (p *QuizPipeline) RunCorpus(ctx context.Context, text string, difficulty domain.Difficulty) (domain.Quiz, error) {
	l := logger.Get()
	start := time.Now()

	sentences := p.extractor.Extract(text, p.sentenceCount)
	if len(sentences) == 0 {
		l.Info("No sentences found in corpus", zap.Int("corpus_chars", len(text)))
		return nil, domain.NewSalienceEmptyError()
	}
	l.Debug("Salient sentences selected",
		zap.Int("count", len(sentences)),
		zap.String("difficulty", difficulty.String()))

	prompt := p.builder.Build(sentences, difficulty)

	raw, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		l.Error("Quiz generation request failed", zap.Error(err))
		return nil, err
	}

	parsed, err := recovery.Parse(raw)
	if err != nil {
		l.Warn("Model response could not be parsed",
			zap.Error(err),
			zap.String("candidate", recovery.Compact(recovery.ExtractJSON(raw))))
		return nil, err
	}

	quiz, err := p.validator.Validate(parsed)
	if err != nil {
		l.Warn("Model response failed validation", zap.Error(err))
		return nil, err
	}

	l.Info("Quiz generated",
		zap.Int("questions", len(quiz)),
		zap.Int("sentences", len(sentences)),
		zap.Duration("elapsed", time.Since(start)))
	return quiz, nil
}
