package salience

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// stopWords is the English list filtered out before stemming.
var stopWords = toSet(`a about above after again against all am an and any are as at be because been
before being below between both but by can could did do does doing down during each few for from
further had has have having he her here hers herself him himself his how i if in into is it its
itself just me more most my myself no nor not now of off on once only or other our ours ourselves
out over own same she should so some such than that the their theirs them themselves then there
these they this those through to too under until up very was we were what when where which while
who whom why will with would you your yours yourself yourselves`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// normalizeSentence collapses line wraps and repeated spaces so a sentence fits on one line.
func normalizeSentence(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// terms returns the stemmed content words of a sentence.
func terms(sentence string) []string {
	words := strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		stem, err := snowball.Stem(w, "english", false)
		if err != nil || stem == "" {
			stem = w
		}
		out = append(out, stem)
	}
	return out
}
