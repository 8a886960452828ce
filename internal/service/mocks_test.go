package service

import (
	"context"

	"pdfquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockSentenceExtractor ---
type MockSentenceExtractor struct {
	mock.Mock
}

func (m *MockSentenceExtractor) Extract(corpus string, k int) []string {
	args := m.Called(corpus, k)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Run(ctx context.Context, docs []domain.ExtractedDocument, difficulty domain.Difficulty) (domain.Quiz, error) {
	args := m.Called(ctx, docs, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Quiz), args.Error(1)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.QuizAttempt, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizAttempt), args.Error(1)
}
