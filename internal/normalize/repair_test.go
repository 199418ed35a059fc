package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": \"value\"}\n  ",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONWindow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON",
			input:    "Here is the extracted data:\n{\"name\": \"Jane\"}",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "trailing prose",
			input:    "{\"name\": \"Jane\"}\n\nLet me know if you need anything else!",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "no braces",
			input:    "sorry, I cannot help with that",
			expected: "sorry, I cannot help with that",
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"outer\": {\"inner\": \"value\"}}",
			expected: `{"outer": {"inner": "value"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONWindow(tt.input))
		})
	}
}

func TestFixTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"skills": ["Go"]}`, FixTrailingCommas(`{"skills": ["Go",]}`))
	assert.Equal(t, `{"a": 1}`, FixTrailingCommas(`{"a": 1,}`))
	assert.Equal(t,
		`{"a": [1, 2], "b": {"c": 3}}`,
		FixTrailingCommas(`{"a": [1, 2,], "b": {"c": 3,},}`))
}

func TestParseWithRepair(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
		wantErr bool
	}{
		{
			name:    "clean JSON",
			input:   `{"name": "Jane"}`,
			wantKey: "name",
		},
		{
			name:    "fenced with preamble and trailing comma",
			input:   "Sure! Here you go:\n```json\n{\"name\": \"Jane\",}\n```",
			wantKey: "name",
		},
		{
			name:    "prose wrapped",
			input:   "The JSON is {\"name\": \"Jane\"} as requested.",
			wantKey: "name",
		},
		{
			name:    "unrecoverable",
			input:   "I could not process the document.",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseWithRepair(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, parsed, tt.wantKey)
		})
	}
}
