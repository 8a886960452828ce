package domain

import (
	"strings"
	"time"
)

// OptionCount is the number of options every quiz item carries.
const OptionCount = 4

// Unanswered marks an AnswerVector slot the user has not chosen yet.
const Unanswered = -1

// Difficulty is the label forwarded to the model.
type Difficulty string

const (
	DifficultyUnset  Difficulty = ""
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty accepts easy/medium/hard in any case; blank means unset.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DifficultyUnset, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyUnset, NewInvalidInputError("difficulty must be one of Easy, Medium, Hard")
}

// Label is the prompt rendering of the difficulty.
func (d Difficulty) Label() string {
	if d == DifficultyUnset {
		return "unspecified"
	}
	return strings.ToLower(string(d))
}

func (d Difficulty) String() string {
	if d == DifficultyUnset {
		return "Unset"
	}
	return string(d)
}

// QuizItem is one single-answer multiple choice question.
type QuizItem struct {
	Question    string              `json:"question"`
	Options     [OptionCount]string `json:"options"`
	AnswerIndex int                 `json:"answer_index"`
}

// CorrectOption returns the text of the correct option.
func (q QuizItem) CorrectOption() string {
	return q.Options[q.AnswerIndex]
}

// Quiz is the validated model output. Its length is whatever the model returned.
type Quiz []QuizItem

// ExtractedDocument is what the document extraction collaborator yields per upload.
type ExtractedDocument struct {
	ID     string
	Text   string
	Failed bool
}

// QuizAttempt is one submitted quiz, kept for history.
type QuizAttempt struct {
	ID            string
	SessionID     string
	Difficulty    Difficulty
	QuestionCount int
	Score         int
	Answers       []int
	SubmittedAt   time.Time
}
