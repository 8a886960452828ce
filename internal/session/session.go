// Package session holds the per-user quiz lifecycle:
//
//	Empty -> Generating -> Ready -> Answering -> Submitted -> Reviewed
//
// A generate request may start from any state. Sessions do no I/O and are safe for
// concurrent use.
package session

import (
	"sync"

	"pdfquiz/internal/domain"
)

// Ticket identifies one generate request. Only the most recent ticket may complete.
type Ticket uint64

// Option configures a Session.
type Option func(*Session)

// WithRetainOnFailure keeps the previous quiz, answers and state when a generation fails.
func WithRetainOnFailure(retain bool) Option {
	return func(s *Session) {
		s.retainOnFailure = retain
	}
}

// WithDifficulty sets the difficulty recorded for the first generation.
func WithDifficulty(d domain.Difficulty) Option {
	return func(s *Session) {
		s.difficulty = d
	}
}

type Session struct {
	mu sync.Mutex

	id              string
	retainOnFailure bool

	state      domain.SessionState
	quiz       domain.Quiz
	answers    []int
	score      int
	difficulty domain.Difficulty
	lastError  error

	ticket Ticket
	saved  *saved
}

// saved is the pre-generation state restored by FailGenerate when retaining.
type saved struct {
	state      domain.SessionState
	quiz       domain.Quiz
	answers    []int
	score      int
	difficulty domain.Difficulty
}

func New(id string, opts ...Option) *Session {
	s := &Session{id: id, state: domain.StateEmpty}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Answers returns a copy of the answer vector.
func (s *Session) Answers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.answers...)
}

// Quiz returns a copy of the current quiz, nil when none is attached.
func (s *Session) Quiz() domain.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(domain.Quiz(nil), s.quiz...)
}

func (s *Session) Difficulty() domain.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// LastError is the failure recorded by the most recent FailGenerate, nil otherwise.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// BeginGenerate moves the session to Generating and returns the ticket the caller must
// present on completion. Any earlier ticket becomes stale.
func (s *Session) BeginGenerate(d domain.Difficulty) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateGenerating {
		s.saved = &saved{
			state:      s.state,
			quiz:       s.quiz,
			answers:    s.answers,
			score:      s.score,
			difficulty: s.difficulty,
		}
	}

	s.ticket++
	s.state = domain.StateGenerating
	s.quiz = nil
	s.answers = nil
	s.score = 0
	s.difficulty = d
	s.lastError = nil
	return s.ticket
}

// CompleteGenerate attaches a validated quiz. A stale ticket leaves the session untouched.
func (s *Session) CompleteGenerate(t Ticket, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.ticket || s.state != domain.StateGenerating {
		return domain.ErrStaleGeneration
	}

	s.quiz = append(domain.Quiz(nil), quiz...)
	s.answers = unanswered(len(quiz))
	s.score = 0
	s.state = domain.StateReady
	s.saved = nil
	return nil
}

// FailGenerate records cause and leaves Generating. By default the session returns to
// Empty; with WithRetainOnFailure it returns to whatever it held before BeginGenerate.
func (s *Session) FailGenerate(t Ticket, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.ticket || s.state != domain.StateGenerating {
		return domain.ErrStaleGeneration
	}

	s.lastError = cause
	if s.retainOnFailure && s.saved != nil {
		s.state = s.saved.state
		s.quiz = s.saved.quiz
		s.answers = s.saved.answers
		s.score = s.saved.score
		s.difficulty = s.saved.difficulty
	} else {
		s.state = domain.StateEmpty
		s.quiz = nil
		s.answers = nil
		s.score = 0
	}
	s.saved = nil
	return nil
}

// Render returns what the answering UI needs. The first render of a Ready quiz moves the
// session to Answering; later renders change nothing.
func (s *Session) Render() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.HasQuiz() {
		return View{}, domain.NewInvalidStateError("render", s.state)
	}
	if s.state == domain.StateReady {
		s.state = domain.StateAnswering
	}
	return s.viewLocked(), nil
}

// Select records choice for question i, overwriting any earlier choice. A Ready session
// is rendered first.
func (s *Session) Select(i, choice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateReady {
		s.state = domain.StateAnswering
	}
	if s.state != domain.StateAnswering {
		return domain.NewInvalidStateError("select an answer", s.state)
	}
	if i < 0 || i >= len(s.quiz) {
		return domain.NewInvalidAnswerError("question index out of range").
			WithContext("index", i).
			WithContext("questions", len(s.quiz))
	}
	if choice < 0 || choice >= domain.OptionCount {
		return domain.NewInvalidAnswerError("choice out of range").
			WithContext("choice", choice)
	}

	s.answers[i] = choice
	return nil
}

// Submit scores the answers. Unanswered questions count as wrong.
func (s *Session) Submit() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateReady {
		s.state = domain.StateAnswering
	}
	if s.state != domain.StateAnswering {
		return 0, domain.NewInvalidStateError("submit", s.state)
	}

	s.score = Score(s.quiz, s.answers)
	s.state = domain.StateSubmitted
	return s.score, nil
}

// Review lists every question with the chosen and correct answers. It may be called any
// number of times once the quiz is submitted.
func (s *Session) Review() ([]ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateSubmitted && s.state != domain.StateReviewed {
		return nil, domain.NewInvalidStateError("review", s.state)
	}
	s.state = domain.StateReviewed

	items := make([]ReviewItem, 0, len(s.quiz))
	for i, q := range s.quiz {
		items = append(items, newReviewItem(i, q, s.answers[i]))
	}
	return items, nil
}

// Score counts the positions where the chosen option equals the correct one.
func Score(quiz domain.Quiz, answers []int) int {
	score := 0
	for i, q := range quiz {
		if i < len(answers) && answers[i] == q.AnswerIndex {
			score++
		}
	}
	return score
}

func unanswered(n int) []int {
	answers := make([]int, n)
	for i := range answers {
		answers[i] = domain.Unanswered
	}
	return answers
}
