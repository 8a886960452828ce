package repository

import (
	"context"
	"fmt"
	"time"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/repository/models"
	"pdfquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates an AttemptRepository on an Oracle connection.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	answers := []int(m.Answers)
	if answers == nil {
		answers = []int{}
	}
	return &domain.QuizAttempt{
		ID:            m.ID,
		SessionID:     m.SessionID,
		Difficulty:    domain.Difficulty(m.Difficulty.String),
		QuestionCount: m.QuestionCount,
		Score:         m.Score,
		Answers:       answers,
		SubmittedAt:   m.SubmittedAt,
	}
}

func fromDomainAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	if a == nil {
		return nil
	}
	return &models.QuizAttempt{
		ID:            a.ID,
		SessionID:     a.SessionID,
		Difficulty:    util.StringToNullString(string(a.Difficulty)),
		QuestionCount: a.QuestionCount,
		Score:         a.Score,
		Answers:       models.IntSlice(a.Answers),
		SubmittedAt:   a.SubmittedAt,
	}
}

// CreateAttempt inserts the attempt. A zero SubmittedAt is set to now.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt.SubmittedAt.IsZero() {
		attempt.SubmittedAt = time.Now().UTC()
	}
	m := fromDomainAttempt(attempt)

	answers, err := m.Answers.Value()
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `INSERT INTO quiz_attempts (ID, SESSION_ID, DIFFICULTY, QUESTION_COUNT, SCORE, ANSWERS, SUBMITTED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`
	_, err = r.db.ExecContext(ctx, query,
		m.ID,
		m.SessionID,
		m.Difficulty,
		m.QuestionCount,
		m.Score,
		answers,
		m.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}

// ListBySession returns at most limit attempts of a session, newest first.
func (r *sqlxAttemptRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.QuizAttempt, error) {
	query := `SELECT ID, SESSION_ID, DIFFICULTY, QUESTION_COUNT, SCORE, ANSWERS, SUBMITTED_AT, CREATED_AT
	          FROM quiz_attempts
	          WHERE SESSION_ID = :1
	          ORDER BY SUBMITTED_AT DESC
	          FETCH FIRST :2 ROWS ONLY`

	var rows []models.QuizAttempt
	if err := r.db.SelectContext(ctx, &rows, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}

	attempts := make([]*domain.QuizAttempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, toDomainAttempt(&rows[i]))
	}
	return attempts, nil
}
