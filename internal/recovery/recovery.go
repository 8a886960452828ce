// Package recovery pulls a JSON value out of free-form model output.
package recovery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"pdfquiz/internal/domain"
)

// ExtractJSON returns the span from the first '{' to the last '}' of the trimmed text.
// Prose, markdown fences and similar wrappers around a single object are dropped this way.
// Without such a span the whole trimmed text is returned.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

// Parse decodes the extracted candidate strictly. Numbers stay json.Number so the
// validator can tell 1 from 1.5, and anything after the first value is an error.
func Parse(raw string) (any, error) {
	candidate := ExtractJSON(raw)
	if candidate == "" {
		return nil, domain.NewRecoveryError(errors.New("empty response"))
	}

	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, domain.NewRecoveryError(fmt.Errorf("invalid JSON: %w", err))
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.NewRecoveryError(fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset()))
	}
	return v, nil
}

// Compact is used for logging: it shortens a candidate to a single line.
func Compact(candidate string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(candidate)); err != nil {
		return strings.Join(strings.Fields(candidate), " ")
	}
	return buf.String()
}
