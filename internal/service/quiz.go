package service

import (
	"context"
	"errors"

	"pdfquiz/internal/config"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/dto"
	"pdfquiz/internal/logger"
	"pdfquiz/internal/session"
	"pdfquiz/internal/util"
	"pdfquiz/internal/validation"

	"go.uber.org/zap"
)

const (
	defaultAttemptLimit = 20
	maxAttemptLimit     = 100
)

// QuizGenerator produces a validated quiz from extracted documents.
type QuizGenerator interface {
	Run(ctx context.Context, docs []domain.ExtractedDocument, difficulty domain.Difficulty) (domain.Quiz, error)
}

// QuizService drives quiz sessions from discrete requests.
type QuizService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	Generate(ctx context.Context, sessionID string, docs []domain.ExtractedDocument, difficulty domain.Difficulty) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SelectAnswer(ctx context.Context, sessionID string, index, choice int) (*dto.SessionResponse, error)
	Submit(ctx context.Context, sessionID string) (*dto.SubmitResponse, error)
	Review(ctx context.Context, sessionID string) (*dto.ReviewResponse, error)
	ListAttempts(ctx context.Context, sessionID string, limit int) (*dto.AttemptListResponse, error)
}

type quizService struct {
	generator QuizGenerator
	registry  *session.Registry
	attempts  domain.AttemptRepository
	tokens    TokenService
	validator *validation.Validator
	cfg       config.GenerationConfig
}

// NewQuizService creates the session service. attempts may be nil, in which case
// submissions are not recorded.
func NewQuizService(
	generator QuizGenerator,
	registry *session.Registry,
	attempts domain.AttemptRepository,
	tokens TokenService,
	cfg config.GenerationConfig,
) QuizService {
	return &quizService{
		generator: generator,
		registry:  registry,
		attempts:  attempts,
		tokens:    tokens,
		validator: validation.NewValidator(0),
		cfg:       cfg,
	}
}

func (s *quizService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	id := util.NewULID()
	sess := s.registry.Create(id)
	s.persist(ctx, sess)

	token, expiresAt, err := s.tokens.Issue(id)
	if err != nil {
		_ = s.registry.Remove(ctx, id)
		return nil, domain.NewInternalError("Failed to issue session token", err)
	}

	logger.Get().Info("Quiz session created",
		zap.String("session_id", id),
		zap.Int("live_sessions", s.registry.Len()))
	return &dto.CreateSessionResponse{SessionID: id, Token: token, ExpiresAt: expiresAt}, nil
}

// Generate replaces the session's quiz. When a newer Generate for the same session starts
// while this one is running, this result is dropped and ErrStaleGeneration is returned.
func (s *quizService) Generate(ctx context.Context, sessionID string, docs []domain.ExtractedDocument, difficulty domain.Difficulty) (*dto.SessionResponse, error) {
	l := logger.Get().With(zap.String("session_id", sessionID))

	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if difficulty == domain.DifficultyUnset && s.cfg.DefaultDifficulty != "" {
		if d, err := domain.ParseDifficulty(s.cfg.DefaultDifficulty); err == nil {
			difficulty = d
		}
	}

	failed := 0
	for _, doc := range docs {
		if doc.Failed {
			failed++
		}
	}
	if failed > 0 {
		l.Warn("Some documents yielded no text",
			zap.String("code", string(domain.CodeExtractionEmpty)),
			zap.Int("failed", failed),
			zap.Int("total", len(docs)))
	}

	ticket := sess.BeginGenerate(difficulty)
	s.persist(ctx, sess)

	quiz, genErr := s.generator.Run(ctx, docs, difficulty)
	if genErr != nil {
		if err := sess.FailGenerate(ticket, genErr); err != nil {
			l.Info("Discarding failure of superseded generation", zap.Error(genErr))
			return nil, err
		}
		s.persist(ctx, sess)
		return nil, genErr
	}

	if err := sess.CompleteGenerate(ticket, quiz); err != nil {
		l.Info("Discarding result of superseded generation", zap.Int("questions", len(quiz)))
		return nil, err
	}
	s.persist(ctx, sess)

	l.Info("Quiz ready",
		zap.Int("questions", len(quiz)),
		zap.String("difficulty", difficulty.String()))
	return toSessionResponse(sess.View(), sess.LastError()), nil
}

// GetSession renders the session; the first render of a new quiz starts answering.
func (s *quizService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.State().HasQuiz() {
		return toSessionResponse(sess.View(), sess.LastError()), nil
	}

	before := sess.State()
	view, err := sess.Render()
	if err != nil {
		return nil, err
	}
	if view.State != before {
		s.persist(ctx, sess)
	}
	return toSessionResponse(view, sess.LastError()), nil
}

func (s *quizService) SelectAnswer(ctx context.Context, sessionID string, index, choice int) (*dto.SessionResponse, error) {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Range errors are only meaningful while answers can be chosen; other states
	// report the state conflict from Select.
	if st := sess.State(); st == domain.StateReady || st == domain.StateAnswering {
		if errs := s.validator.ValidateSelection(index, choice, len(sess.Quiz())); len(errs) > 0 {
			return nil, errs
		}
	}

	if err := sess.Select(index, choice); err != nil {
		return nil, err
	}
	s.persist(ctx, sess)
	return toSessionResponse(sess.View(), nil), nil
}

// Submit scores the session and records the attempt. A failure to record is logged only.
func (s *quizService) Submit(ctx context.Context, sessionID string) (*dto.SubmitResponse, error) {
	l := logger.Get().With(zap.String("session_id", sessionID))

	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	score, err := sess.Submit()
	if err != nil {
		return nil, err
	}
	s.persist(ctx, sess)

	answers := sess.Answers()
	resp := &dto.SubmitResponse{SessionID: sessionID, Score: score, Total: len(answers)}

	if s.attempts != nil {
		attempt := &domain.QuizAttempt{
			ID:            util.NewULID(),
			SessionID:     sessionID,
			Difficulty:    sess.Difficulty(),
			QuestionCount: len(answers),
			Score:         score,
			Answers:       answers,
		}
		if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
			l.Error("Failed to record quiz attempt", zap.Error(err))
		} else {
			resp.AttemptID = attempt.ID
		}
	}

	l.Info("Quiz submitted", zap.Int("score", score), zap.Int("total", len(answers)))
	return resp, nil
}

func (s *quizService) Review(ctx context.Context, sessionID string) (*dto.ReviewResponse, error) {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	before := sess.State()
	items, err := sess.Review()
	if err != nil {
		return nil, err
	}
	if before != domain.StateReviewed {
		s.persist(ctx, sess)
	}

	resp := &dto.ReviewResponse{
		SessionID: sessionID,
		Score:     sess.Score(),
		Total:     len(items),
		Items:     make([]dto.ReviewItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.ReviewItemResponse{
			Index:         item.Index,
			Question:      item.Question,
			Selected:      selectedPtr(item.Selected),
			SelectedText:  item.SelectedText,
			CorrectIndex:  item.Correct,
			CorrectOption: item.CorrectOption,
			IsCorrect:     item.IsCorrect,
		})
	}
	return resp, nil
}

func (s *quizService) ListAttempts(ctx context.Context, sessionID string, limit int) (*dto.AttemptListResponse, error) {
	if _, err := s.registry.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	resp := &dto.AttemptListResponse{SessionID: sessionID, Attempts: []dto.AttemptResponse{}}
	if s.attempts == nil {
		return resp, nil
	}

	if limit <= 0 {
		limit = defaultAttemptLimit
	}
	if limit > maxAttemptLimit {
		limit = maxAttemptLimit
	}

	attempts, err := s.attempts.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz attempts", err)
	}
	for _, a := range attempts {
		resp.Attempts = append(resp.Attempts, dto.AttemptResponse{
			ID:            a.ID,
			Difficulty:    a.Difficulty.String(),
			QuestionCount: a.QuestionCount,
			Score:         a.Score,
			Answers:       a.Answers,
			SubmittedAt:   a.SubmittedAt,
		})
	}
	return resp, nil
}

// persist saves a snapshot. The in-memory session stays authoritative, so failures are
// only logged.
func (s *quizService) persist(ctx context.Context, sess *session.Session) {
	if err := s.registry.Save(ctx, sess); err != nil {
		logger.Get().Warn("Failed to persist session snapshot",
			zap.String("session_id", sess.ID()),
			zap.Error(err))
	}
}

func toSessionResponse(view session.View, lastErr error) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		SessionID:  view.ID,
		State:      view.State.String(),
		Difficulty: view.Difficulty,
		Questions:  make([]dto.QuestionResponse, 0, len(view.Questions)),
		Score:      view.Score,
	}
	for _, q := range view.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			Index:    q.Index,
			Question: q.Question,
			Options:  append([]string(nil), q.Options[:]...),
			Selected: selectedPtr(q.Selected),
		})
		if q.Selected != domain.Unanswered {
			resp.Answered++
		}
	}
	if lastErr != nil {
		resp.LastError = userMessage(lastErr)
	}
	return resp
}

func selectedPtr(selected int) *int {
	if selected == domain.Unanswered {
		return nil
	}
	return &selected
}

// userMessage is the text shown for a failed generation.
func userMessage(err error) string {
	if domain.IsUnusableResponse(err) {
		return domain.UnusableResponseMessage
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "quiz generation failed"
}
