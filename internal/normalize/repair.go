// Package normalize parses free-form model output into canonical candidate
// records, repairing the malformations models commonly produce: markdown
// fences, conversational prose around the JSON block, trailing commas, and
// synonym field names.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractJSONWindow trims leading/trailing prose around a JSON object by
// slicing from the first opening brace to the last closing brace. Returns
// the input unchanged when no window is found.
func ExtractJSONWindow(text string) string {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || first > last {
		return text
	}
	return text[first : last+1]
}

// FixTrailingCommas removes commas that directly precede a closing brace or
// bracket. This is the single most common structural defect in local-model
// JSON output.
func FixTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// ParseWithRepair parses raw model output as a JSON object, applying repair
// passes in order of increasing aggressiveness: fence stripping, brace-window
// extraction, trailing-comma removal. Returns the parsed object or an error
// when no valid structure can be recovered.
func ParseWithRepair(raw string) (map[string]any, error) {
	cleaned := CleanJSONBlock(raw)

	attempts := []string{
		cleaned,
		ExtractJSONWindow(cleaned),
		FixTrailingCommas(ExtractJSONWindow(cleaned)),
	}

	var lastErr error
	for _, attempt := range attempts {
		if strings.TrimSpace(attempt) == "" {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(attempt), &parsed); err != nil {
			lastErr = err
			continue
		}
		return parsed, nil
	}

	if lastErr == nil {
		lastErr = errEmptyResponse
	}
	return nil, lastErr
}

var errEmptyResponse = &NormalizationError{Message: "empty response"}
