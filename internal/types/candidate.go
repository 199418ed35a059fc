// Package types provides type definitions for structured data used throughout the cv-extractor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExtractionMethod identifies how raw text was obtained from a document.
type ExtractionMethod string

// Extraction method values
const (
	// MethodNativeText means the text layer was read directly from the PDF
	MethodNativeText ExtractionMethod = "native_text"
	// MethodOCR means the document was scanned and text came from OCR
	MethodOCR ExtractionMethod = "ocr"
)

// EducationEntry is a single education item on a CV.
// All fields are optional; absent values serialize as empty strings.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Period      string `json:"period"`
	Details     string `json:"details"`
}

// ExperienceEntry is a single work experience item on a CV.
type ExperienceEntry struct {
	Title            string   `json:"title"`
	Organization     string   `json:"organization"`
	Period           string   `json:"period"`
	Responsibilities []string `json:"responsibilities"`
}

// CandidateRecord is the canonical extraction output for one document/model pair.
// Every field is always present with an explicit empty value so downstream
// comparison code never branches on missing keys. Records are treated as
// immutable once produced by the normalizer; the orchestrator only appends
// new records, never mutates existing ones.
type CandidateRecord struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Skills         []string          `json:"skills"`
	Education      []EducationEntry  `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	Certifications []string          `json:"certifications"`
	Languages      []string          `json:"languages"`

	// Provenance
	SourceModel      string           `json:"source_model"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	RawConfidence    *float64         `json:"raw_confidence,omitempty"`
}

// NewCandidateRecord returns a record with every field set to its explicit
// empty default (empty string or empty, non-nil slice).
func NewCandidateRecord(sourceModel string, method ExtractionMethod) *CandidateRecord {
	return &CandidateRecord{
		Skills:           []string{},
		Education:        []EducationEntry{},
		Experience:       []ExperienceEntry{},
		Certifications:   []string{},
		Languages:        []string{},
		SourceModel:      sourceModel,
		ExtractionMethod: method,
	}
}

// EnsureDefaults replaces nil slices with empty ones so the record always
// serializes with explicit empty values. Entry-level responsibility slices
// are normalized too.
func (r *CandidateRecord) EnsureDefaults() {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Certifications == nil {
		r.Certifications = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	for i := range r.Experience {
		if r.Experience[i].Responsibilities == nil {
			r.Experience[i].Responsibilities = []string{}
		}
	}
}
