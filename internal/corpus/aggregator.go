// Package corpus merges per-document text into the single corpus the pipeline works on.
package corpus

import (
	"strings"

	"pdfquiz/internal/domain"
)

// Separator follows every document's text in the corpus.
const Separator = "\n"

// Aggregate concatenates texts in order, each followed by Separator.
// Empty texts contribute nothing.
func Aggregate(texts []string) string {
	var b strings.Builder
	for _, text := range texts {
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString(Separator)
	}
	return b.String()
}

// FromDocuments aggregates the text of every document; failed extractions are skipped.
func FromDocuments(docs []domain.ExtractedDocument) string {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Failed {
			continue
		}
		texts = append(texts, doc.Text)
	}
	return Aggregate(texts)
}
