// Package eval scores candidate records against hand-labeled ground truth:
// per-field similarity in [0,1], greedy entry matching for structured
// sequences, and aggregation across a document set per model.
package eval

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeScalar lowercases, trims, and collapses runs of whitespace so
// formatting differences never count against a match.
func normalizeScalar(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

// ScalarSimilarity compares two scalar fields. Case-insensitive,
// whitespace-collapsed exact match scores 1.0; otherwise an edit-distance
// ratio in [0,1]. Empty-vs-empty is a perfect match, empty-vs-nonempty a
// total miss.
func ScalarSimilarity(candidate, groundTruth string) float64 {
	a := normalizeScalar(candidate)
	b := normalizeScalar(groundTruth)

	switch {
	case a == "" && b == "":
		return 1.0
	case a == "" || b == "":
		return 0.0
	case a == b:
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 1.0
	}

	ratio := 1.0 - float64(distance)/float64(longer)
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}

// SetSimilarity compares unordered string collections (skills,
// certifications, languages) by Jaccard overlap after normalization.
func SetSimilarity(candidate, groundTruth []string) float64 {
	a := toSet(candidate)
	b := toSet(groundTruth)

	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	intersection := 0
	for item := range a {
		if b[item] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if normalized := normalizeScalar(item); normalized != "" {
			set[normalized] = true
		}
	}
	return set
}
