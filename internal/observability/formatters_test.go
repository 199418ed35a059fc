package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-extractor/internal/types"
)

func TestPrintCandidateRecord(t *testing.T) {
	confidence := 0.75
	record := types.NewCandidateRecord("llama3", types.MethodOCR)
	record.Name = "Jane Doe"
	record.Email = "jane@example.com"
	record.Skills = []string{"Go", "SQL"}
	record.RawConfidence = &confidence
	record.Experience = []types.ExperienceEntry{
		{Title: "Engineer", Organization: "Acme", Responsibilities: []string{}},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintCandidateRecord(record)

	out := buf.String()
	assert.Contains(t, out, "EXTRACTED RECORD [llama3]")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "ocr")
	assert.Contains(t, out, "0.75")
	assert.Contains(t, out, "Engineer @ Acme")
}

func TestPrintCandidateRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCandidateRecord(nil)
	assert.Empty(t, buf.String())
}

func TestPrintModelResults(t *testing.T) {
	record := types.NewCandidateRecord("llama3", types.MethodNativeText)
	record.Name = "Jane Doe"

	results := map[string]types.ModelResult{
		"llama3": {Record: record},
		"mistral": {Failure: &types.ExtractionFailure{
			ErrorKind: types.ErrorKindModelUnavailable,
			Message:   "all backends failed",
		}},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintModelResults("cv_001", results)

	out := buf.String()
	assert.Contains(t, out, "RESULTS FOR cv_001")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, types.ErrorKindModelUnavailable)
}

func TestPrintEvaluationReport(t *testing.T) {
	report := &types.EvaluationReport{
		Models: map[string]types.ModelReport{
			"llama3": {
				Model:           "llama3",
				FieldMeans:      map[string]float64{"name": 0.9, "email": 1.0},
				Overall:         0.95,
				DocumentsScored: 4,
			},
		},
		DocumentsSkipped: []string{"cv_007"},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintEvaluationReport(report)

	out := buf.String()
	assert.Contains(t, out, "EVALUATION REPORT")
	assert.Contains(t, out, "llama3")
	assert.Contains(t, out, "0.950")
	assert.Contains(t, out, "Skipped 1 documents")
}

func TestPrintEvaluationReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEvaluationReport(&types.EvaluationReport{})
	assert.Empty(t, buf.String())
}
