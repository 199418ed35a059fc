package types

// GroundTruthRecord is a hand-labeled reference record used to score
// extraction accuracy. It has the same shape as CandidateRecord minus the
// provenance fields. Ground truth is loaded once per document and treated as
// read-only for the lifetime of an evaluation run.
type GroundTruthRecord struct {
	// ID optionally identifies the document this record belongs to.
	// When empty, the loader falls back to the filename stem.
	ID string `json:"id,omitempty"`

	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Skills         []string          `json:"skills"`
	Education      []EducationEntry  `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	Certifications []string          `json:"certifications"`
	Languages      []string          `json:"languages"`
}

// EnsureDefaults replaces nil slices with empty ones, mirroring
// CandidateRecord.EnsureDefaults, so comparison code never sees nil.
func (g *GroundTruthRecord) EnsureDefaults() {
	if g.Skills == nil {
		g.Skills = []string{}
	}
	if g.Education == nil {
		g.Education = []EducationEntry{}
	}
	if g.Experience == nil {
		g.Experience = []ExperienceEntry{}
	}
	if g.Certifications == nil {
		g.Certifications = []string{}
	}
	if g.Languages == nil {
		g.Languages = []string{}
	}
	for i := range g.Experience {
		if g.Experience[i].Responsibilities == nil {
			g.Experience[i].Responsibilities = []string{}
		}
	}
}
