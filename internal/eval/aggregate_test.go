package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-extractor/internal/types"
)

func resultWith(model, docID string, name, email float64) types.EvaluationResult {
	fields := map[string]float64{"name": name, "email": email}
	return types.EvaluationResult{
		Model:      model,
		DocumentID: docID,
		Fields:     fields,
		Overall:    (name + email) / 2,
	}
}

func TestAggregator_PerModelFieldMeans(t *testing.T) {
	agg := NewAggregator()
	agg.Add(resultWith("llama3", "cv_001", 1.0, 0.5))
	agg.Add(resultWith("llama3", "cv_002", 0.0, 0.5))
	agg.Add(resultWith("mistral", "cv_001", 1.0, 1.0))

	report := agg.Report()

	require.Contains(t, report.Models, "llama3")
	llama := report.Models["llama3"]
	assert.InDelta(t, 0.5, llama.FieldMeans["name"], 1e-9)
	assert.InDelta(t, 0.5, llama.FieldMeans["email"], 1e-9)
	assert.Equal(t, 2, llama.DocumentsScored)

	mistral := report.Models["mistral"]
	assert.InDelta(t, 1.0, mistral.Overall, 1e-9)
	assert.Equal(t, 1, mistral.DocumentsScored)
}

func TestAggregator_SkippedDocumentsExcludedFromDenominator(t *testing.T) {
	// Document 3 has no ground truth: per-model means are computed over the
	// remaining documents only, and the scored count reflects the exclusion.
	agg := NewAggregator()
	agg.Add(resultWith("llama3", "cv_001", 1.0, 1.0))
	agg.Add(resultWith("llama3", "cv_002", 1.0, 1.0))
	agg.SkipDocument("cv_003")

	report := agg.Report()

	llama := report.Models["llama3"]
	assert.InDelta(t, 1.0, llama.FieldMeans["name"], 1e-9, "skipped doc must not drag the mean down")
	assert.Equal(t, 2, llama.DocumentsScored)
	assert.Equal(t, []string{"cv_003"}, report.DocumentsSkipped)
}

func TestAggregator_MissingCandidateScoredZero(t *testing.T) {
	// The model produced nothing for cv_002: that document still counts,
	// with zeros across all fields.
	agg := NewAggregator()
	agg.Add(resultWith("llama3", "cv_001", 1.0, 1.0))
	agg.Add(ScoreAbsent("llama3", "cv_002"))

	report := agg.Report()

	llama := report.Models["llama3"]
	assert.InDelta(t, 0.5, llama.FieldMeans["name"], 1e-9)
	assert.Equal(t, 2, llama.DocumentsScored)
}

func TestAggregator_EmptyReport(t *testing.T) {
	report := NewAggregator().Report()
	assert.Empty(t, report.Models)
	assert.Empty(t, report.DocumentsSkipped)
}
