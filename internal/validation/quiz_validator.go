package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"pdfquiz/internal/domain"
)

// QuizValidator checks a decoded model response against the quiz schema:
//
//	{"quiz": [{"question": string, "options": [4 strings], "answer_index": 0..3}, ...]}
//
// The first violation rejects the whole payload.
type QuizValidator struct {
	expectedSize int
	enforceSize  bool
}

func NewQuizValidator(expectedSize int, enforceSize bool) *QuizValidator {
	return &QuizValidator{expectedSize: expectedSize, enforceSize: enforceSize}
}

// Validate converts v into a domain.Quiz. Errors are schema errors whose cause names the
// offending path, e.g. "quiz[3].answer_index: out of range".
func (qv *QuizValidator) Validate(v any) (domain.Quiz, error) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, domain.NewSchemaError("$", "expected an object")
	}

	rawItems, ok := root["quiz"]
	if !ok {
		return nil, domain.NewSchemaError("quiz", "missing")
	}
	items, ok := rawItems.([]any)
	if !ok {
		return nil, domain.NewSchemaError("quiz", "expected an array")
	}

	if qv.enforceSize && len(items) != qv.expectedSize {
		return nil, domain.NewSchemaError("quiz", fmt.Sprintf("expected %d items, got %d", qv.expectedSize, len(items)))
	}

	quiz := make(domain.Quiz, 0, len(items))
	for i, raw := range items {
		item, err := validateItem(i, raw)
		if err != nil {
			return nil, err
		}
		quiz = append(quiz, item)
	}
	return quiz, nil
}

func validateItem(i int, raw any) (domain.QuizItem, error) {
	path := fmt.Sprintf("quiz[%d]", i)

	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.QuizItem{}, domain.NewSchemaError(path, "expected an object")
	}

	question, ok := obj["question"].(string)
	if !ok {
		return domain.QuizItem{}, domain.NewSchemaError(path+".question", "expected a string")
	}

	rawOptions, ok := obj["options"].([]any)
	if !ok {
		return domain.QuizItem{}, domain.NewSchemaError(path+".options", "expected an array")
	}
	if len(rawOptions) != domain.OptionCount {
		return domain.QuizItem{}, domain.NewSchemaError(path+".options",
			fmt.Sprintf("expected %d options, got %d", domain.OptionCount, len(rawOptions)))
	}

	var options [domain.OptionCount]string
	for j, o := range rawOptions {
		s, ok := o.(string)
		if !ok {
			return domain.QuizItem{}, domain.NewSchemaError(fmt.Sprintf("%s.options[%d]", path, j), "expected a string")
		}
		options[j] = s
	}

	rawIndex, present := obj["answer_index"]
	if !present {
		return domain.QuizItem{}, domain.NewSchemaError(path+".answer_index", "missing")
	}
	index, ok := integral(rawIndex)
	if !ok {
		return domain.QuizItem{}, domain.NewSchemaError(path+".answer_index", "expected an integer")
	}
	if index < 0 || index >= domain.OptionCount {
		return domain.QuizItem{}, domain.NewSchemaError(path+".answer_index",
			fmt.Sprintf("out of range: %d", index))
	}

	return domain.QuizItem{
		Question:    question,
		Options:     options,
		AnswerIndex: int(index),
	}, nil
}

// integral accepts json.Number or float64 values with no fractional part.
func integral(v any) (int64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int64(f), true
}
