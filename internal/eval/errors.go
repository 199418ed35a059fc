package eval

import "fmt"

// GroundTruthMissingError indicates a requested document has no ground truth
// entry. The document is excluded from scoring; this is not a hard failure.
type GroundTruthMissingError struct {
	DocumentID string
}

func (e *GroundTruthMissingError) Error() string {
	return fmt.Sprintf("no ground truth for document %q", e.DocumentID)
}
