package eval

import "github.com/jonathan/cv-extractor/internal/types"

// Aggregator accumulates per-(model, document) results into per-model field
// means across a document set. Documents without ground truth are recorded
// as skipped and excluded from every denominator, not treated as zero.
type Aggregator struct {
	sums    map[string]map[string]float64
	counts  map[string]int
	skipped []string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		sums:   make(map[string]map[string]float64),
		counts: make(map[string]int),
	}
}

// Add records one scored (model, document) result.
func (a *Aggregator) Add(result types.EvaluationResult) {
	fieldSums, ok := a.sums[result.Model]
	if !ok {
		fieldSums = make(map[string]float64, len(result.Fields))
		a.sums[result.Model] = fieldSums
	}
	for field, score := range result.Fields {
		fieldSums[field] += score
	}
	a.counts[result.Model]++
}

// SkipDocument records a document excluded from scoring because it carries
// no ground truth.
func (a *Aggregator) SkipDocument(docID string) {
	a.skipped = append(a.skipped, docID)
}

// Report produces the final per-model aggregation.
func (a *Aggregator) Report() types.EvaluationReport {
	report := types.EvaluationReport{
		Models:           make(map[string]types.ModelReport, len(a.sums)),
		DocumentsSkipped: a.skipped,
	}

	for model, fieldSums := range a.sums {
		count := a.counts[model]
		means := make(map[string]float64, len(fieldSums))
		for field, sum := range fieldSums {
			means[field] = sum / float64(count)
		}
		report.Models[model] = types.ModelReport{
			Model:           model,
			FieldMeans:      means,
			Overall:         meanOf(means),
			DocumentsScored: count,
		}
	}
	return report
}
