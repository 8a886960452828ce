package domain

import "context"

// TextGenerator is the generative-text model collaborator.
// Implementations return the model's text verbatim and wrap failures with NewLLMServiceError.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SentenceExtractor selects the k most central sentences of a corpus in corpus order.
type SentenceExtractor interface {
	Extract(corpus string, k int) []string
}

// DocumentExtractor turns one uploaded PDF into plain text.
// A document that cannot be read comes back with Failed set and no text.
type DocumentExtractor interface {
	Extract(ctx context.Context, name string, data []byte) ExtractedDocument
}

// AttemptRepository stores submitted quizzes.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*QuizAttempt, error)
}
