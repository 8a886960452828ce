// Package prompt renders the instruction text sent to the generation model.
package prompt

import (
	"fmt"
	"strings"

	"pdfquiz/internal/domain"
)

// DefaultQuizSize is the number of questions requested when none is configured.
const DefaultQuizSize = 10

const quizTemplate = `Below are some key sentences extracted from class notes (difficulty: %s):

%s
Using only the information in these sentences, write exactly %d multiple-choice questions.

Rules:
1. Every question must have exactly %d answer options.
2. Exactly one option is correct. "answer_index" is the 0-based position of the correct option (0 to %d).
3. Match the requested difficulty: %s.
4. Respond with a single JSON object and nothing else. Do not add explanations, markdown, or code fences.

The JSON object must have this exact shape:
{
  "quiz": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer_index": 0
    }
  ]
}
The "quiz" array must contain exactly %d objects.
`

// Builder produces prompts for a fixed quiz size.
type Builder struct {
	quizSize int
}

// NewBuilder returns a Builder; a non-positive size falls back to DefaultQuizSize.
func NewBuilder(quizSize int) *Builder {
	if quizSize <= 0 {
		quizSize = DefaultQuizSize
	}
	return &Builder{quizSize: quizSize}
}

func (b *Builder) QuizSize() int {
	return b.quizSize
}

// Build is deterministic: the same sentences and difficulty always give the same prompt.
func (b *Builder) Build(sentences []string, difficulty domain.Difficulty) string {
	var lines strings.Builder
	for i, s := range sentences {
		fmt.Fprintf(&lines, "%d. %s\n", i+1, s)
	}

	label := difficulty.Label()
	return fmt.Sprintf(quizTemplate,
		label,
		lines.String(),
		b.quizSize,
		domain.OptionCount,
		domain.OptionCount-1,
		label,
		b.quizSize,
	)
}
