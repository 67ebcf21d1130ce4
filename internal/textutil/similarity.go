// Package textutil provides the fuzzy text comparison primitives shared by
// the matcher and classifier.
package textutil

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity returns the normalized Levenshtein similarity of two strings
// in [0,1]. Inputs are case-folded, so identical strings that differ only
// in case score 1.0. Two empty strings score 1.0; empty versus non-empty
// scores 0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// FuzzyContains reports whether text contains keyword, either as an exact
// substring or as a whitespace-delimited token whose similarity to the
// keyword is at or above threshold. The substring check runs first as a
// fast path.
func FuzzyContains(text, keyword string, threshold float64) bool {
	if keyword == "" {
		return false
	}

	textLower := strings.ToLower(text)
	keywordLower := strings.ToLower(keyword)

	if strings.Contains(textLower, keywordLower) {
		return true
	}

	for _, token := range strings.Fields(textLower) {
		if Similarity(token, keywordLower) >= threshold {
			return true
		}
	}
	return false
}
