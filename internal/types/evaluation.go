package types

// Error kind values recorded on ExtractionFailure descriptors. They mirror
// the error taxonomy so callers can switch on a stable string instead of
// unwrapping error chains across a serialization boundary.
const (
	ErrorKindAcquisition      = "AcquisitionError"
	ErrorKindModelUnavailable = "ModelUnavailableError"
	ErrorKindNormalization    = "NormalizationError"
	ErrorKindConfiguration    = "ConfigurationError"
)

// ExtractionFailure describes a per-model failure inside an otherwise
// successful document run.
type ExtractionFailure struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// ModelResult holds the outcome for one model_id within a document run:
// exactly one of Record or Failure is set.
type ModelResult struct {
	Record  *CandidateRecord   `json:"record,omitempty"`
	Failure *ExtractionFailure `json:"failure,omitempty"`
}

// EvaluationResult is the per-(model, document) scoring outcome: a mapping
// from field name to a score in [0,1] plus the unweighted mean.
type EvaluationResult struct {
	Model      string             `json:"model"`
	DocumentID string             `json:"document_id"`
	Fields     map[string]float64 `json:"fields"`
	Overall    float64            `json:"overall"`
}

// ModelReport aggregates scores for one model across a document set.
type ModelReport struct {
	Model           string             `json:"model"`
	FieldMeans      map[string]float64 `json:"field_means"`
	Overall         float64            `json:"overall"`
	DocumentsScored int                `json:"documents_scored"`
}

// EvaluationReport is the full evaluation output across models.
type EvaluationReport struct {
	Models           map[string]ModelReport `json:"models"`
	DocumentsSkipped []string               `json:"documents_skipped,omitempty"`
}
