package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"", DifficultyUnset, false},
		{"  ", DifficultyUnset, false},
		{"easy", DifficultyEasy, false},
		{"Medium", DifficultyMedium, false},
		{" HARD ", DifficultyHard, false},
		{"extreme", DifficultyUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDifficulty(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, NewInvalidInputError(""))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDifficulty_Label(t *testing.T) {
	assert.Equal(t, "unspecified", DifficultyUnset.Label())
	assert.Equal(t, "hard", DifficultyHard.Label())
	assert.Equal(t, "Unset", DifficultyUnset.String())
	assert.Equal(t, "Easy", DifficultyEasy.String())
}

func TestQuizItem_CorrectOption(t *testing.T) {
	item := QuizItem{Question: "q", Options: [OptionCount]string{"a", "b", "c", "d"}, AnswerIndex: 2}
	assert.Equal(t, "c", item.CorrectOption())
}

func TestDomainError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("pipeline: %w", NewSchemaError("quiz[1].options", "expected 4 options"))

	assert.ErrorIs(t, err, ErrResponseSchema)
	assert.NotErrorIs(t, err, ErrResponseUnparsable)
	assert.True(t, IsUnusableResponse(err))
	assert.True(t, IsUnusableResponse(NewRecoveryError(errors.New("eof"))))
	assert.False(t, IsUnusableResponse(NewLLMServiceError(errors.New("quota"))))

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "quiz[1].options", de.Context["path"])
	assert.Equal(t, UnusableResponseMessage, de.Message)
}

func TestDomainError_UnwrapsCause(t *testing.T) {
	cause := errors.New("deadline")
	err := NewLLMServiceError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "quiz generation failed: deadline", err.Error())
}

func TestDomainError_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewInvalidStateError("submit", StateEmpty))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"INVALID_STATE","message":"cannot submit while empty","context":{"state":"empty"}}`, string(data))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{NewMissingFieldError("files"), NewOutOfRangeError("choice", 7, 0, 3)}
	assert.Equal(t, "files: field is required; choice: must be between 0 and 3", errs.Error())
}

func TestSessionState_JSON(t *testing.T) {
	data, err := json.Marshal(StateAnswering)
	require.NoError(t, err)
	assert.Equal(t, `"answering"`, string(data))

	var s SessionState
	require.NoError(t, json.Unmarshal([]byte(`"reviewed"`), &s))
	assert.Equal(t, StateReviewed, s)
	assert.Error(t, json.Unmarshal([]byte(`"paused"`), &s))

	assert.Equal(t, "state(42)", SessionState(42).String())
	assert.True(t, StateReady.HasQuiz())
	assert.False(t, StateGenerating.HasQuiz())
}
