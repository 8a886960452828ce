package recovery

import (
	"encoding/json"
	"errors"
	"testing"

	"pdfquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare object", raw: `{"quiz":[]}`, want: `{"quiz":[]}`},
		{name: "surrounding whitespace", raw: "\n\t {\"quiz\":[]} \n", want: `{"quiz":[]}`},
		{name: "markdown fence", raw: "```json\n{\"quiz\":[]}\n```", want: `{"quiz":[]}`},
		{name: "prose around", raw: "Sure! Here is your quiz: {\"quiz\":[]} Good luck.", want: `{"quiz":[]}`},
		{name: "nested braces", raw: `x {"a":{"b":1}} y`, want: `{"a":{"b":1}}`},
		{name: "no braces", raw: "  I cannot help with that.  ", want: "I cannot help with that."},
		{name: "closing before opening", raw: "} oops {", want: "} oops {"},
		{name: "empty", raw: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}

func TestParse_FencedResponse(t *testing.T) {
	raw := "```json\n{\"quiz\":[{\"question\":\"Q\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"answer_index\":2}]}\n```"

	v, err := Parse(raw)
	require.NoError(t, err)

	obj, ok := v.(map[string]any)
	require.True(t, ok)
	items, ok := obj["quiz"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item := items[0].(map[string]any)
	assert.Equal(t, json.Number("2"), item["answer_index"])
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "refusal", raw: "I cannot help with that."},
		{name: "empty", raw: ""},
		{name: "truncated", raw: `{"quiz": [{"question": "Q"`},
		{name: "two objects", raw: `{"a":1} and {"b":2}`},
		{name: "single quotes", raw: `{'quiz': []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.raw)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, domain.ErrResponseUnparsable))
			assert.True(t, domain.IsUnusableResponse(err))
		})
	}
}

func TestCompact(t *testing.T) {
	assert.Equal(t, `{"a":[1,2]}`, Compact("{\n  \"a\": [1, 2]\n}"))
	assert.Equal(t, "not json here", Compact("not\n json   here"))
}
