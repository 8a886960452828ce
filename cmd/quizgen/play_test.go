package main

import (
	"bytes"
	"strings"
	"testing"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New("01HZX3J9Q6W8R2T4Y6V8K0P2A4")
	ticket := sess.BeginGenerate(domain.DifficultyEasy)
	require.NoError(t, sess.CompleteGenerate(ticket, domain.Quiz{
		{Question: "2+2?", Options: [4]string{"3", "4", "5", "6"}, AnswerIndex: 1},
		{Question: "Capital of France?", Options: [4]string{"Rome", "Madrid", "Paris", "Oslo"}, AnswerIndex: 2},
		{Question: "Largest planet?", Options: [4]string{"Mars", "Earth", "Venus", "Jupiter"}, AnswerIndex: 3},
	}))
	return sess
}

func TestPlay(t *testing.T) {
	sess := readySession(t)
	var out bytes.Buffer

	// Invalid entries are asked again; the blank line skips the last question.
	score, err := play(sess, strings.NewReader("2\nx\n9\n3\n\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, score)
	assert.Equal(t, domain.StateReviewed, sess.State())
	assert.Equal(t, []int{1, 2, domain.Unanswered}, sess.Answers())
	assert.Contains(t, out.String(), "Score: 2/3")
	assert.Contains(t, out.String(), "Please enter a number between 1 and 4.")
	assert.Contains(t, out.String(), "Q3 wrong: you chose (no answer), answer: Jupiter")
}

func TestPlay_InputEndsEarly(t *testing.T) {
	sess := readySession(t)
	var out bytes.Buffer

	score, err := play(sess, strings.NewReader("1\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
	assert.Equal(t, []int{0, domain.Unanswered, domain.Unanswered}, sess.Answers())
}

func TestPlay_NotReady(t *testing.T) {
	_, err := play(session.New("01HZX3J9Q6W8R2T4Y6V8K0P2A4"), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, domain.UnusableResponseMessage, userMessage(domain.NewRecoveryError(assert.AnError)))
	assert.Equal(t, "session not found: x", userMessage(domain.NewSessionNotFoundError("x")))
}
