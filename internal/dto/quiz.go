package dto

import "time"

// CreateSessionResponse is returned when a new quiz session is opened.
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// QuestionResponse is one quiz question as shown while answering.
type QuestionResponse struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Selected *int     `json:"selected,omitempty"`
}

// SessionResponse represents a session in the API response
type SessionResponse struct {
	SessionID  string             `json:"session_id"`
	State      string             `json:"state"`
	Difficulty string             `json:"difficulty"`
	Questions  []QuestionResponse `json:"questions"`
	Answered   int                `json:"answered"`
	Score      *int               `json:"score,omitempty"`
	LastError  string             `json:"last_error,omitempty"`
}

// SelectAnswerRequest carries the chosen option for one question.
type SelectAnswerRequest struct {
	Choice *int `json:"choice"`
}

// SubmitResponse is the result of submitting the answers.
type SubmitResponse struct {
	SessionID string `json:"session_id"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
	AttemptID string `json:"attempt_id,omitempty"`
}

// ReviewItemResponse compares the chosen and correct option of one question.
type ReviewItemResponse struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Selected      *int   `json:"selected,omitempty"`
	SelectedText  string `json:"selected_text,omitempty"`
	CorrectIndex  int    `json:"correct_index"`
	CorrectOption string `json:"correct_option"`
	IsCorrect     bool   `json:"is_correct"`
}

// ReviewResponse lists every question after submission.
type ReviewResponse struct {
	SessionID string               `json:"session_id"`
	Score     int                  `json:"score"`
	Total     int                  `json:"total"`
	Items     []ReviewItemResponse `json:"items"`
}

// AttemptResponse is one recorded submission.
type AttemptResponse struct {
	ID            string    `json:"id"`
	Difficulty    string    `json:"difficulty"`
	QuestionCount int       `json:"question_count"`
	Score         int       `json:"score"`
	Answers       []int     `json:"answers"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// AttemptListResponse is the submission history of a session, newest first.
type AttemptListResponse struct {
	SessionID string            `json:"session_id"`
	Attempts  []AttemptResponse `json:"attempts"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
