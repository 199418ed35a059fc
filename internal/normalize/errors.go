package normalize

import "fmt"

// NormalizationError is returned when model output could not be coerced to
// the candidate record schema after all repair attempts. The raw response is
// retained for diagnostics.
type NormalizationError struct {
	Message     string
	Model       string
	RawResponse string
	Cause       error
}

func (e *NormalizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("normalization failed for model %s: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("normalization failed for model %s: %s", e.Model, e.Message)
}

func (e *NormalizationError) Unwrap() error {
	return e.Cause
}
