// Package keywords extracts salient terms from chunk text for the
// sparse index. Extraction is advisory: a failed or disabled extractor
// leaves a chunk searchable by its full text only.
package keywords

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// DefaultTopN is the number of keywords kept per chunk.
const DefaultTopN = 8

// Extractor produces the top keywords for a piece of text.
type Extractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// FrequencyExtractor ranks terms by occurrence count after stopword
// and short-token filtering. Deterministic: ties break alphabetically.
type FrequencyExtractor struct{}

// NewFrequencyExtractor creates the default extractor.
func NewFrequencyExtractor() *FrequencyExtractor {
	return &FrequencyExtractor{}
}

func (e *FrequencyExtractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	counts := make(map[string]int)
	for _, tok := range tokenize(text) {
		if len(tok) < 3 || stopwords[tok] {
			continue
		}
		counts[tok]++
	}

	if len(counts) == 0 {
		return nil, nil
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > topN {
		terms = terms[:topN]
	}
	return terms, nil
}

// Noop is used when keyword extraction is disabled in config.
type Noop struct{}

func (Noop) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	return nil, nil
}

// tokenize lowercases and splits on any non-letter, non-digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "would": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"were": true, "been": true, "into": true, "more": true, "other": true,
	"them": true, "then": true, "than": true, "these": true, "those": true,
	"some": true, "such": true, "only": true, "over": true, "also": true,
	"its": true, "it's": true, "his": true, "she": true, "him": true,
	"each": true, "between": true, "both": true, "does": true, "doing": true,
	"during": true, "after": true, "before": true, "where": true, "while": true,
	"should": true, "could": true, "being": true, "very": true, "just": true,
	"any": true, "most": true, "may": true, "how": true, "who": true,
}
