package session

import (
	"time"

	"pdfquiz/internal/domain"
)

// View is the read model of a session shown to the user. The correct answers are only
// included after submission.
type View struct {
	ID         string              `json:"id"`
	State      domain.SessionState `json:"state"`
	Difficulty string              `json:"difficulty"`
	Questions  []QuestionView      `json:"questions"`
	Score      *int                `json:"score,omitempty"`
}

type QuestionView struct {
	Index    int                        `json:"index"`
	Question string                     `json:"question"`
	Options  [domain.OptionCount]string `json:"options"`
	Selected int                        `json:"selected"`
}

// ReviewItem compares the chosen answer with the correct one for one question.
type ReviewItem struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Selected      int    `json:"selected"`
	SelectedText  string `json:"selected_text,omitempty"`
	Correct       int    `json:"correct"`
	CorrectOption string `json:"correct_option"`
	IsCorrect     bool   `json:"is_correct"`
}

func newReviewItem(i int, q domain.QuizItem, selected int) ReviewItem {
	item := ReviewItem{
		Index:         i,
		Question:      q.Question,
		Selected:      selected,
		Correct:       q.AnswerIndex,
		CorrectOption: q.CorrectOption(),
		IsCorrect:     selected == q.AnswerIndex,
	}
	if selected >= 0 && selected < domain.OptionCount {
		item.SelectedText = q.Options[selected]
	}
	return item
}

// View returns the current read model without changing state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		ID:         s.id,
		State:      s.state,
		Difficulty: s.difficulty.String(),
		Questions:  make([]QuestionView, 0, len(s.quiz)),
	}
	for i, q := range s.quiz {
		v.Questions = append(v.Questions, QuestionView{
			Index:    i,
			Question: q.Question,
			Options:  q.Options,
			Selected: s.answers[i],
		})
	}
	if s.state == domain.StateSubmitted || s.state == domain.StateReviewed {
		score := s.score
		v.Score = &score
	}
	return v
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	ID         string              `json:"id"`
	State      domain.SessionState `json:"state"`
	Difficulty domain.Difficulty   `json:"difficulty"`
	Quiz       domain.Quiz         `json:"quiz,omitempty"`
	Answers    []int               `json:"answers,omitempty"`
	Score      int                 `json:"score"`
	SavedAt    time.Time           `json:"saved_at"`
}

// Snapshot captures the session. A session caught mid-generation is saved as Empty,
// because the in-flight request cannot survive a restart.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		State:      s.state,
		Difficulty: s.difficulty,
		Quiz:       append(domain.Quiz(nil), s.quiz...),
		Answers:    append([]int(nil), s.answers...),
		Score:      s.score,
		SavedAt:    time.Now().UTC(),
	}
	if s.state == domain.StateGenerating {
		if s.saved != nil && s.retainOnFailure {
			snap.State = s.saved.state
			snap.Quiz = append(domain.Quiz(nil), s.saved.quiz...)
			snap.Answers = append([]int(nil), s.saved.answers...)
			snap.Score = s.saved.score
			snap.Difficulty = s.saved.difficulty
		} else {
			snap.State = domain.StateEmpty
			snap.Quiz = nil
			snap.Answers = nil
			snap.Score = 0
		}
	}
	return snap
}

// Restore rebuilds a session from a snapshot.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	if snap.State.HasQuiz() && !consistent(snap) {
		return nil, domain.NewInternalError("corrupt session snapshot", nil).
			WithContext("session_id", snap.ID)
	}
	if snap.State == domain.StateGenerating {
		snap.State = domain.StateEmpty
	}

	s := New(snap.ID, opts...)
	s.state = snap.State
	s.difficulty = snap.Difficulty
	if snap.State.HasQuiz() {
		s.quiz = append(domain.Quiz(nil), snap.Quiz...)
		s.answers = append([]int(nil), snap.Answers...)
		s.score = snap.Score
	}
	return s, nil
}

// consistent reports whether the quiz and answers of a snapshot can be served without
// indexing out of range.
func consistent(snap Snapshot) bool {
	if len(snap.Answers) != len(snap.Quiz) {
		return false
	}
	for i, q := range snap.Quiz {
		if q.AnswerIndex < 0 || q.AnswerIndex >= domain.OptionCount {
			return false
		}
		if a := snap.Answers[i]; a != domain.Unanswered && (a < 0 || a >= domain.OptionCount) {
			return false
		}
	}
	return true
}
