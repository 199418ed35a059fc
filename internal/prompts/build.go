package prompts

import "fmt"

// Family selects the instruction style for a model family. Local-inference
// models get the heavily structured single-shot prompt; hosted chat APIs get
// the shorter instruct variant and a separate system message.
type Family string

// Prompt family values
const (
	FamilyLocal  Family = "local"
	FamilyHosted Family = "hosted"
)

// familyTemplates maps each family to its template key. Adding a model
// family means adding a table row, not a code branch.
var familyTemplates = map[Family]string{
	FamilyLocal:  "extract-cv-local",
	FamilyHosted: "extract-cv-hosted",
}

// Build constructs the extraction prompt for the given CV text and model
// family. Deterministic: the same text and family always yield the same
// prompt.
func Build(cvText string, family Family) (string, error) {
	key, ok := familyTemplates[family]
	if !ok {
		return "", fmt.Errorf("unknown prompt family %q", family)
	}

	template, err := Get("extraction.json", key)
	if err != nil {
		return "", err
	}

	return Format(template, map[string]string{"CVText": cvText}), nil
}

// SystemJSONOnly returns the system message used with hosted chat backends
// to force raw-JSON responses.
func SystemJSONOnly() string {
	return MustGet("extraction.json", "system-json-only")
}

// OCRPage returns the instruction given to the vision model when running
// OCR over a scanned CV page.
func OCRPage() string {
	return MustGet("extraction.json", "ocr-page")
}
