package service

import (
	"context"
	"fmt"
	"testing"

	"pdfquiz/internal/config"
	"pdfquiz/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizPayload(n int) map[string]any {
	items := make([]any, n)
	for i := range items {
		items[i] = map[string]any{
			"question":     fmt.Sprintf("Question %d?", i+1),
			"options":      []any{"a", "b", "c", "d"},
			"answer_index": float64(0),
		}
	}
	return map[string]any{"quiz": items}
}

func TestNewQuizPipelineFromConfig_ValidatorMatchesPromptSize(t *testing.T) {
	cfg := &config.Config{
		LLM:        config.LLMConfig{Provider: "ollama", Model: "llama3"},
		Generation: config.GenerationConfig{QuizSize: 0, EnforceQuizSize: true},
	}

	p, err := NewQuizPipelineFromConfig(context.Background(), cfg)
	require.NoError(t, err)

	quiz, err := p.validator.Validate(quizPayload(prompt.DefaultQuizSize))
	require.NoError(t, err)
	assert.Len(t, quiz, prompt.DefaultQuizSize)

	_, err = p.validator.Validate(quizPayload(prompt.DefaultQuizSize - 1))
	assert.Error(t, err)
}
