// Package salience picks the most representative sentences of a corpus with LexRank:
// sentences are nodes of a TF-IDF cosine similarity graph and are ranked by the
// stationary distribution of a damped random walk over that graph.
package salience

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"pdfquiz/internal/config"
	"pdfquiz/internal/domain"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const (
	DefaultSentenceCount = 12
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// numberBoundary is a sentence ending in a number followed by a capitalised word. The punkt
// model reads "1905." as an abbreviation-like token and does not split there.
var numberBoundary = regexp.MustCompile(`\d\.\s+\p{Lu}`)

type sentenceTokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// LexRank implements domain.SentenceExtractor.
type LexRank struct {
	cfg       config.SalienceConfig
	tokenizer sentenceTokenizer
}

var _ domain.SentenceExtractor = (*LexRank)(nil)

// NewLexRank loads the English sentence model. Zero or out-of-range settings fall back
// to the defaults above.
func NewLexRank(cfg config.SalienceConfig) (*LexRank, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load english sentence tokenizer: %w", err)
	}

	if cfg.SentenceCount <= 0 {
		cfg.SentenceCount = DefaultSentenceCount
	}
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		cfg.Damping = DefaultDamping
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Threshold < 0 {
		cfg.Threshold = 0
	}

	return &LexRank{cfg: cfg, tokenizer: tokenizer}, nil
}

// Segment splits the corpus into sentences, dropping blank ones and ones without any
// letter or digit.
func (l *LexRank) Segment(corpus string) []string {
	var out []string
	for _, s := range l.tokenizer.Tokenize(corpus) {
		for _, part := range splitAfterNumbers(s.Text) {
			if text := normalizeSentence(part); hasWord(text) {
				out = append(out, text)
			}
		}
	}
	return out
}

func splitAfterNumbers(text string) []string {
	var parts []string
	for {
		loc := numberBoundary.FindStringIndex(text)
		if loc == nil {
			return append(parts, text)
		}
		cut := loc[0] + 2 // keep the digit and the period
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
}

func hasWord(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

// Extract returns min(k, sentence count) sentences in their original order.
// A k of zero or less uses the configured sentence count.
func (l *LexRank) Extract(corpus string, k int) []string {
	if k <= 0 {
		k = l.cfg.SentenceCount
	}

	sents := l.Segment(corpus)
	if len(sents) <= k {
		return sents
	}

	scores := l.Rank(sents)
	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	picked := append([]int(nil), order[:k]...)
	sort.Ints(picked)

	out := make([]string, 0, k)
	for _, idx := range picked {
		out = append(out, sents[idx])
	}
	return out
}

// Rank returns the centrality of every sentence; scores sum to 1.
func (l *LexRank) Rank(sents []string) []float64 {
	n := len(sents)
	if n == 0 {
		return nil
	}

	vectors := tfidf(sents)
	norms := make([]float64, n)
	for i, v := range vectors {
		norms[i] = norm(v)
	}

	// Row-stochastic transition matrix. A sentence with no neighbours above the
	// threshold spreads its mass uniformly, as a dangling page does in PageRank.
	matrix := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		var sum float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			w := cosine(vectors[i], vectors[j], norms[i], norms[j])
			if w <= 0 || w < l.cfg.Threshold {
				continue
			}
			row[j] = w
			sum += w
		}
		for j := range row {
			if sum == 0 {
				row[j] = 1 / float64(n)
			} else {
				row[j] /= sum
			}
		}
		matrix[i] = row
	}

	return powerIteration(matrix, l.cfg.Damping, l.cfg.Tolerance, l.cfg.MaxIterations)
}

func powerIteration(matrix [][]float64, damping, tolerance float64, maxIterations int) []float64 {
	n := len(matrix)
	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}

	teleport := (1 - damping) / float64(n)
	for iter := 0; iter < maxIterations; iter++ {
		next := make([]float64, n)
		for j := range next {
			next[j] = teleport
		}
		for i := 0; i < n; i++ {
			if p[i] == 0 {
				continue
			}
			for j, w := range matrix[i] {
				next[j] += damping * p[i] * w
			}
		}

		var delta float64
		for i := range p {
			delta += math.Abs(next[i] - p[i])
		}
		p = next
		if delta < tolerance {
			break
		}
	}
	return p
}

type vector map[string]float64

// tfidf weights each term by tf/max_tf of its sentence times ln(1 + N/df).
func tfidf(sents []string) []vector {
	counts := make([]map[string]int, len(sents))
	df := make(map[string]int)
	for i, s := range sents {
		c := make(map[string]int)
		for _, t := range terms(s) {
			c[t]++
		}
		for t := range c {
			df[t]++
		}
		counts[i] = c
	}

	n := float64(len(sents))
	vectors := make([]vector, len(sents))
	for i, c := range counts {
		maxCount := 0
		for _, cnt := range c {
			if cnt > maxCount {
				maxCount = cnt
			}
		}
		v := make(vector, len(c))
		for t, cnt := range c {
			v[t] = float64(cnt) / float64(maxCount) * math.Log(1+n/float64(df[t]))
		}
		vectors[i] = v
	}
	return vectors
}

func norm(v vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

func cosine(a, b vector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot / (normA * normB)
}
