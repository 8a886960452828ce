package domain

import (
	"encoding/json"
	"fmt"
)

// SessionState is the position of a quiz session in its lifecycle.
type SessionState int

const (
	StateEmpty SessionState = iota
	StateGenerating
	StateReady
	StateAnswering
	StateSubmitted
	StateReviewed
)

var sessionStateNames = map[SessionState]string{
	StateEmpty:      "empty",
	StateGenerating: "generating",
	StateReady:      "ready",
	StateAnswering:  "answering",
	StateSubmitted:  "submitted",
	StateReviewed:   "reviewed",
}

func (s SessionState) String() string {
	if name, ok := sessionStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// HasQuiz reports whether a validated quiz is attached in this state.
func (s SessionState) HasQuiz() bool {
	return s >= StateReady
}

func (s SessionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SessionState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for state, n := range sessionStateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", name)
}
