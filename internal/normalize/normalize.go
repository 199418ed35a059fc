package normalize

import (
	"encoding/json"

	"github.com/jonathan/cv-extractor/internal/schemas"
	"github.com/jonathan/cv-extractor/internal/types"
)

// Normalize parses raw model output into a CandidateRecord. It is a pure
// function of its inputs: identical arguments always yield structurally
// identical records.
//
// The repair-and-default-fill behavior is applied uniformly: parse with
// repair passes, coerce synonym keys onto the schema, fill every missing
// field with its explicit empty default, then verify the result against the
// embedded candidate record schema.
func Normalize(raw string, modelID string, method types.ExtractionMethod, confidence *float64) (*types.CandidateRecord, error) {
	parsed, err := ParseWithRepair(raw)
	if err != nil {
		return nil, &NormalizationError{
			Message:     "no valid JSON structure could be recovered",
			Model:       modelID,
			RawResponse: raw,
			Cause:       err,
		}
	}

	record := types.NewCandidateRecord(modelID, method)
	record.RawConfidence = confidence
	coerceRecord(parsed, record)
	record.EnsureDefaults()

	// Sanity check: the produced record must always validate against the
	// schema shape regardless of input malformation.
	serialized, err := json.Marshal(record)
	if err != nil {
		return nil, &NormalizationError{
			Message:     "failed to serialize coerced record",
			Model:       modelID,
			RawResponse: raw,
			Cause:       err,
		}
	}
	if err := schemas.ValidateCandidateJSON(string(serialized)); err != nil {
		return nil, &NormalizationError{
			Message:     "coerced record does not match candidate schema",
			Model:       modelID,
			RawResponse: raw,
			Cause:       err,
		}
	}

	return record, nil
}
