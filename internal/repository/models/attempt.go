package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IntSlice stores an answer vector as a JSON array in a CLOB column.
type IntSlice []int

// Value implements the driver.Valuer interface
func (s IntSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]int(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *IntSlice) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = IntSlice{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("IntSlice Scan: unsupported type %T", value)
	}

	if len(raw) == 0 || string(raw) == "null" {
		*s = IntSlice{}
		return nil
	}
	return json.Unmarshal(raw, (*[]int)(s))
}

// QuizAttempt maps to the quiz_attempts table.
type QuizAttempt struct {
	ID            string         `db:"ID"`
	SessionID     string         `db:"SESSION_ID"`
	Difficulty    sql.NullString `db:"DIFFICULTY"`
	QuestionCount int            `db:"QUESTION_COUNT"`
	Score         int            `db:"SCORE"`
	Answers       IntSlice       `db:"ANSWERS"`
	SubmittedAt   time.Time      `db:"SUBMITTED_AT"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
}
