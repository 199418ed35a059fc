package acquire

import "fmt"

// AcquisitionError means no usable text could be obtained from a document,
// either because both native and OCR extraction came back empty or because
// the document itself is invalid. It is fatal for the whole per-document
// request.
type AcquisitionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *AcquisitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("acquisition failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("acquisition failed for %s: %s", e.Path, e.Message)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}
