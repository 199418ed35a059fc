package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Deterministic(t *testing.T) {
	first, err := Build("Jane Doe\njane@example.com", FamilyLocal)
	require.NoError(t, err)
	second, err := Build("Jane Doe\njane@example.com", FamilyLocal)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_EmbedsTextAndSchema(t *testing.T) {
	prompt, err := Build("CV BODY MARKER", FamilyLocal)
	require.NoError(t, err)

	assert.Contains(t, prompt, "CV BODY MARKER")
	// The prompt must spell out the expected output keys.
	for _, key := range []string{"name", "email", "phone", "skills", "education", "experience", "certifications", "languages"} {
		assert.Contains(t, prompt, key)
	}
	assert.Contains(t, prompt, "ONLY")
	assert.NotContains(t, prompt, "{{.CVText}}")
}

func TestBuild_FamilyVariants(t *testing.T) {
	local, err := Build("text", FamilyLocal)
	require.NoError(t, err)
	hosted, err := Build("text", FamilyHosted)
	require.NoError(t, err)

	assert.NotEqual(t, local, hosted)
}

func TestBuild_UnknownFamily(t *testing.T) {
	_, err := Build("text", Family("quantum"))
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, you have {{.Count}} items", map[string]string{
		"Name":  "Jane",
		"Count": "3",
	})
	assert.Equal(t, "Hello Jane, you have 3 items", result)
}

func TestGet_MissingKey(t *testing.T) {
	ClearCache()
	_, err := Get("extraction.json", "no-such-prompt")
	require.Error(t, err)
}

func TestSystemAndOCRPrompts(t *testing.T) {
	assert.Contains(t, SystemJSONOnly(), "JSON")
	assert.Contains(t, OCRPage(), "scanned CV page")
}
