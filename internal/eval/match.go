package eval

import "github.com/jonathan/cv-extractor/internal/types"

// educationSimilarity scores one candidate entry against one ground-truth
// entry as the mean of its scalar subfield similarities.
func educationSimilarity(candidate, groundTruth types.EducationEntry) float64 {
	return (ScalarSimilarity(candidate.Institution, groundTruth.Institution) +
		ScalarSimilarity(candidate.Degree, groundTruth.Degree) +
		ScalarSimilarity(candidate.Period, groundTruth.Period) +
		ScalarSimilarity(candidate.Details, groundTruth.Details)) / 4
}

// experienceSimilarity scores one candidate entry against one ground-truth
// entry; responsibilities are compared as a set.
func experienceSimilarity(candidate, groundTruth types.ExperienceEntry) float64 {
	return (ScalarSimilarity(candidate.Title, groundTruth.Title) +
		ScalarSimilarity(candidate.Organization, groundTruth.Organization) +
		ScalarSimilarity(candidate.Period, groundTruth.Period) +
		SetSimilarity(candidate.Responsibilities, groundTruth.Responsibilities)) / 4
}

// greedyMatchScore pairs ground-truth entries with candidate entries and
// returns the mean matched-pair score. Each ground-truth entry takes its
// best-scoring unused candidate entry, processed in listed order; on ties
// the earliest-listed candidate entry wins. Unmatched ground-truth entries
// contribute 0; extra candidate entries do not penalize beyond that.
func greedyMatchScore(gtCount, candCount int, pairScore func(gtIdx, candIdx int) float64) float64 {
	if gtCount == 0 {
		// Nothing to recover: an empty ground-truth sequence is satisfied
		// regardless of what the candidate produced.
		return 1.0
	}

	used := make([]bool, candCount)
	total := 0.0
	for g := 0; g < gtCount; g++ {
		bestScore := -1.0
		bestIdx := -1
		for c := 0; c < candCount; c++ {
			if used[c] {
				continue
			}
			// Strict improvement only: the earliest candidate wins ties.
			if score := pairScore(g, c); score > bestScore {
				bestScore = score
				bestIdx = c
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			total += bestScore
		}
	}
	return total / float64(gtCount)
}

// EducationScore scores the education sequences via greedy best-match pairing.
func EducationScore(candidate []types.EducationEntry, groundTruth []types.EducationEntry) float64 {
	return greedyMatchScore(len(groundTruth), len(candidate), func(g, c int) float64 {
		return educationSimilarity(candidate[c], groundTruth[g])
	})
}

// ExperienceScore scores the experience sequences via greedy best-match pairing.
func ExperienceScore(candidate []types.ExperienceEntry, groundTruth []types.ExperienceEntry) float64 {
	return greedyMatchScore(len(groundTruth), len(candidate), func(g, c int) float64 {
		return experienceSimilarity(candidate[c], groundTruth[g])
	})
}
