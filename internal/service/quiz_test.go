package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdfquiz/internal/config"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testDocs = []domain.ExtractedDocument{{ID: "notes.pdf", Text: "Some notes."}}

func testQuiz() domain.Quiz {
	return domain.Quiz{
		{Question: "Q1", Options: [4]string{"a", "b", "c", "d"}, AnswerIndex: 1},
		{Question: "Q2", Options: [4]string{"e", "f", "g", "h"}, AnswerIndex: 0},
		{Question: "Q3", Options: [4]string{"i", "j", "k", "l"}, AnswerIndex: 2},
	}
}

type serviceFixture struct {
	svc       QuizService
	generator *MockQuizGenerator
	attempts  *MockAttemptRepository
	registry  *session.Registry
}

func newServiceFixture(t *testing.T, opts ...session.Option) *serviceFixture {
	t.Helper()
	tokens, err := NewTokenService(config.JWTConfig{SecretKey: "test-secret", SessionTokenTTL: time.Hour})
	require.NoError(t, err)

	f := &serviceFixture{
		generator: new(MockQuizGenerator),
		attempts:  new(MockAttemptRepository),
		registry:  session.NewRegistry(nil, 0, opts...),
	}
	f.svc = NewQuizService(f.generator, f.registry, f.attempts, tokens, config.GenerationConfig{})
	return f
}

func (f *serviceFixture) newSession(t *testing.T) string {
	t.Helper()
	resp, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)
	return resp.SessionID
}

func TestQuizService_CreateSession(t *testing.T) {
	f := newServiceFixture(t)

	resp, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.SessionID, 26)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	got, err := f.svc.GetSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "empty", got.State)
	assert.Empty(t, got.Questions)
}

func TestQuizService_FullFlow(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	id := f.newSession(t)

	f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyMedium).Return(testQuiz(), nil)
	f.attempts.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(a *domain.QuizAttempt) bool {
		return a.SessionID == id && a.Score == 2 && a.QuestionCount == 3 &&
			assert.ObjectsAreEqual([]int{1, 1, 2}, a.Answers)
	})).Return(nil)

	generated, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, "ready", generated.State)
	assert.Len(t, generated.Questions, 3)

	rendered, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "answering", rendered.State)

	for i, choice := range []int{1, 1, 2} {
		_, err := f.svc.SelectAnswer(ctx, id, i, choice)
		require.NoError(t, err)
	}

	submitted, err := f.svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, submitted.Score)
	assert.Equal(t, 3, submitted.Total)
	assert.Len(t, submitted.AttemptID, 26)

	review, err := f.svc.Review(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, review.Score)
	require.Len(t, review.Items, 3)
	assert.False(t, review.Items[1].IsCorrect)
	assert.Equal(t, "e", review.Items[1].CorrectOption)

	f.generator.AssertExpectations(t)
	f.attempts.AssertExpectations(t)
}

func TestQuizService_SubmitSurvivesAttemptFailure(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	id := f.newSession(t)

	f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyUnset).Return(testQuiz(), nil)
	f.attempts.On("CreateAttempt", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyUnset)
	require.NoError(t, err)

	resp, err := f.svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Score)
	assert.Empty(t, resp.AttemptID)
}

func TestQuizService_GenerateFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("clears by default", func(t *testing.T) {
		f := newServiceFixture(t)
		id := f.newSession(t)
		f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyEasy).Return(testQuiz(), nil).Once()
		f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyHard).
			Return(nil, domain.NewRecoveryError(errors.New("no json"))).Once()

		_, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyEasy)
		require.NoError(t, err)

		_, err = f.svc.Generate(ctx, id, testDocs, domain.DifficultyHard)
		assert.True(t, domain.IsUnusableResponse(err))

		got, err := f.svc.GetSession(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "empty", got.State)
		assert.Equal(t, domain.UnusableResponseMessage, got.LastError)
	})

	t.Run("retains previous quiz when configured", func(t *testing.T) {
		f := newServiceFixture(t, session.WithRetainOnFailure(true))
		id := f.newSession(t)
		f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyEasy).Return(testQuiz(), nil).Once()
		f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyHard).
			Return(nil, domain.NewLLMServiceError(errors.New("timeout"))).Once()

		_, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyEasy)
		require.NoError(t, err)

		_, err = f.svc.Generate(ctx, id, testDocs, domain.DifficultyHard)
		assert.True(t, errors.Is(err, domain.ErrLLMService))

		got, err := f.svc.GetSession(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "answering", got.State)
		assert.Len(t, got.Questions, 3)
		assert.Equal(t, "quiz generation failed", got.LastError)
	})
}

func TestQuizService_StaleGenerationIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	id := f.newSession(t)

	started := make(chan struct{})
	release := make(chan struct{})
	newer := domain.Quiz{{Question: "Newer", Options: [4]string{"a", "b", "c", "d"}, AnswerIndex: 3}}

	f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyEasy).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(testQuiz(), nil).Once()
	f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyHard).Return(newer, nil).Once()

	errCh := make(chan error, 1)
	go func() {
		_, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyEasy)
		errCh <- err
	}()

	<-started
	resp, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyHard)
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 1)

	close(release)
	assert.True(t, errors.Is(<-errCh, domain.ErrStaleGeneration))

	got, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "Newer", got.Questions[0].Question)
}

func TestQuizService_InvalidOperations(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	id := f.newSession(t)

	_, err := f.svc.SelectAnswer(ctx, id, 0, 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	_, err = f.svc.Submit(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	_, err = f.svc.Review(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	_, err = f.svc.GetSession(ctx, "01HZX3J9Q6W8R2T4Y6V8K0P2A4")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	f.attempts.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestQuizService_SelectAnswerOutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	id := f.newSession(t)

	f.generator.On("Run", mock.Anything, testDocs, domain.DifficultyEasy).Return(testQuiz(), nil)
	_, err := f.svc.Generate(ctx, id, testDocs, domain.DifficultyEasy)
	require.NoError(t, err)

	tests := []struct {
		name       string
		index      int
		choice     int
		wantFields []string
	}{
		{"index past end", 3, 0, []string{"index"}},
		{"choice too large", 0, 4, []string{"choice"}},
		{"both negative", -1, -1, []string{"index", "choice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SelectAnswer(ctx, id, tt.index, tt.choice)
			var errs domain.ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}

	got, err := f.svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, got.Answered)
}

func TestQuizService_DefaultDifficulty(t *testing.T) {
	tokens, err := NewTokenService(config.JWTConfig{SecretKey: "k"})
	require.NoError(t, err)
	generator := new(MockQuizGenerator)
	svc := NewQuizService(generator, session.NewRegistry(nil, 0), nil, tokens, config.GenerationConfig{DefaultDifficulty: "hard"})

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	generator.On("Run", mock.Anything, testDocs, domain.DifficultyHard).Return(domain.Quiz{}, nil)
	resp, err := svc.Generate(context.Background(), created.SessionID, testDocs, domain.DifficultyUnset)
	require.NoError(t, err)
	assert.Equal(t, "Hard", resp.Difficulty)
	generator.AssertExpectations(t)
}

func TestQuizService_ListAttempts(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	id := f.newSession(t)
	submittedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	f.attempts.On("ListBySession", mock.Anything, id, defaultAttemptLimit).Return([]*domain.QuizAttempt{
		{ID: "A1", SessionID: id, Difficulty: domain.DifficultyEasy, QuestionCount: 10, Score: 7, Answers: []int{0}, SubmittedAt: submittedAt},
	}, nil)

	resp, err := f.svc.ListAttempts(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, resp.Attempts, 1)
	assert.Equal(t, "Easy", resp.Attempts[0].Difficulty)
	assert.Equal(t, 7, resp.Attempts[0].Score)
	assert.Equal(t, submittedAt, resp.Attempts[0].SubmittedAt)
}
