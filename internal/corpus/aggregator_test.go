package corpus

import (
	"testing"

	"pdfquiz/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{name: "nil", texts: nil, want: ""},
		{name: "all empty", texts: []string{"", ""}, want: ""},
		{name: "single", texts: []string{"One."}, want: "One.\n"},
		{name: "order kept", texts: []string{"First doc.", "Second doc."}, want: "First doc.\nSecond doc.\n"},
		{name: "empty in the middle", texts: []string{"A.", "", "B."}, want: "A.\nB.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.texts))
		})
	}
}

func TestFromDocuments_SkipsFailedExtractions(t *testing.T) {
	docs := []domain.ExtractedDocument{
		{ID: "a.pdf", Text: "Alpha."},
		{ID: "b.pdf", Failed: true},
		{ID: "c.pdf", Text: ""},
		{ID: "d.pdf", Text: "Delta."},
	}

	assert.Equal(t, "Alpha.\nDelta.\n", FromDocuments(docs))
}
