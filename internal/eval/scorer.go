package eval

import "github.com/jonathan/cv-extractor/internal/types"

// FieldNames lists every scored field, in report order.
var FieldNames = []string{
	"name",
	"email",
	"phone",
	"skills",
	"education",
	"experience",
	"certifications",
	"languages",
}

// Score computes per-field similarity between a candidate record and ground
// truth. The overall score is the unweighted mean of all field scores: equal
// weighting, no field prioritized.
func Score(candidate *types.CandidateRecord, groundTruth *types.GroundTruthRecord, docID string) types.EvaluationResult {
	fields := map[string]float64{
		"name":           ScalarSimilarity(candidate.Name, groundTruth.Name),
		"email":          ScalarSimilarity(candidate.Email, groundTruth.Email),
		"phone":          ScalarSimilarity(candidate.Phone, groundTruth.Phone),
		"skills":         SetSimilarity(candidate.Skills, groundTruth.Skills),
		"education":      EducationScore(candidate.Education, groundTruth.Education),
		"experience":     ExperienceScore(candidate.Experience, groundTruth.Experience),
		"certifications": SetSimilarity(candidate.Certifications, groundTruth.Certifications),
		"languages":      SetSimilarity(candidate.Languages, groundTruth.Languages),
	}

	return types.EvaluationResult{
		Model:      candidate.SourceModel,
		DocumentID: docID,
		Fields:     fields,
		Overall:    meanOf(fields),
	}
}

// ScoreAbsent builds the all-zero result used when a model produced no
// candidate record for a scored document. This distinguishes "model failed
// to produce output" from "model produced wrong output".
func ScoreAbsent(modelID, docID string) types.EvaluationResult {
	fields := make(map[string]float64, len(FieldNames))
	for _, name := range FieldNames {
		fields[name] = 0.0
	}
	return types.EvaluationResult{
		Model:      modelID,
		DocumentID: docID,
		Fields:     fields,
		Overall:    0.0,
	}
}

func meanOf(fields map[string]float64) float64 {
	if len(fields) == 0 {
		return 0.0
	}
	total := 0.0
	for _, score := range fields {
		total += score
	}
	return total / float64(len(fields))
}
