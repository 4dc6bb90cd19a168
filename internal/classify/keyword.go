package classify

import (
	"fmt"
	"regexp"
	"strings"

	"vegly/internal/core"
	"vegly/internal/knowledge"
)

// KeywordMatcher is the deterministic first tier. Markers match anywhere
// in the name; positive and negative words only match on word boundaries,
// so "ham" stays quiet inside "hammock".
type KeywordMatcher struct {
	markers  []string
	positive []boundaryPattern
	negative []boundaryPattern
}

type boundaryPattern struct {
	word string
	re   *regexp.Regexp
}

// NewKeywordMatcher compiles the keyword sets. Matching happens against
// lower-cased names, so the sets themselves must already be lower case.
func NewKeywordMatcher(kw knowledge.Keywords) *KeywordMatcher {
	return &KeywordMatcher{
		markers:  kw.Markers,
		positive: compileBoundaries(kw.Positive),
		negative: compileBoundaries(kw.Negative),
	}
}

func compileBoundaries(words []string) []boundaryPattern {
	patterns := make([]boundaryPattern, 0, len(words))
	for _, word := range words {
		patterns = append(patterns, boundaryPattern{
			word: word,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`),
		})
	}
	return patterns
}

// Classify checks markers, then positive words, then negative words. An
// explicit vegetarian badge outranks incidental meat words, so
// "veggie chicken tenders (v)" classifies vegetarian.
func (m *KeywordMatcher) Classify(name string) core.TierResult {
	lower := strings.ToLower(name)

	for _, marker := range m.markers {
		if strings.Contains(lower, marker) {
			return keywordVerdict(true, fmt.Sprintf("Contains vegetarian marker: '%s'", marker))
		}
	}

	for _, p := range m.positive {
		if p.re.MatchString(lower) {
			return keywordVerdict(true, fmt.Sprintf("Contains vegetarian indicator: '%s'", p.word))
		}
	}

	for _, p := range m.negative {
		if p.re.MatchString(lower) {
			return keywordVerdict(false, fmt.Sprintf("Contains non-vegetarian ingredient: '%s'", p.word))
		}
	}

	return core.TierResult{
		Confidence: 0.0,
		Reasoning:  "No keyword match",
		Method:     core.MethodKeyword,
	}
}

func keywordVerdict(isVeg bool, reasoning string) core.TierResult {
	return core.TierResult{
		IsVegetarian: core.BoolPtr(isVeg),
		Confidence:   KeywordConfidence,
		Reasoning:    reasoning,
		Method:       core.MethodKeyword,
	}
}
