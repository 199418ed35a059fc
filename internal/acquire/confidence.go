package acquire

import (
	"regexp"
	"strings"
)

var (
	reEmail   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	rePhone   = regexp.MustCompile(`(\+?\d[\d\s().\-]{7,}\d)`)
	reSection = regexp.MustCompile(`(?i)\b(experience|education|skills|employment|qualifications|certifications)\b`)
)

// HeuristicConfidence estimates how CV-like a block of extracted text is.
// Common resume artifacts (an email address, a phone number, section
// headings, enough content) each add to a low base score.
func HeuristicConfidence(text string) float64 {
	score := 0.2 // base
	if reEmail.MatchString(text) {
		score += 0.2
	}
	if rePhone.MatchString(text) {
		score += 0.15
	}
	if reSection.MatchString(text) {
		score += 0.25
	}
	if len(strings.TrimSpace(text)) > 400 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
