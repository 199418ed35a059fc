package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/cv-extractor/internal/prompts"
)

// DefaultOpenRouterBaseURL is the hosted OpenRouter API root.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterBackend calls hosted models through the OpenAI-compatible
// chat/completions API.
type OpenRouterBackend struct {
	baseURL    string
	apiKey     string
	referer    string
	httpClient *http.Client
}

// NewOpenRouterBackend creates a hosted-API backend. The API key may be
// empty; calls then fail with ErrBackendUnavailable so the fallback chain
// advances cleanly instead of erroring at construction time.
func NewOpenRouterBackend(baseURL, apiKey string) *OpenRouterBackend {
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	return &OpenRouterBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		referer:    "https://cv-extractor.app",
		httpClient: &http.Client{},
	}
}

// Kind identifies this backend in routing tables.
func (b *OpenRouterBackend) Kind() BackendKind {
	return KindOpenRouter
}

// Call sends a chat completion request and returns the first choice's content.
func (b *OpenRouterBackend) Call(ctx context.Context, model string, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("%w: openrouter api key not configured", ErrBackendUnavailable)
	}

	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": prompts.SystemJSONOnly()},
			{"role": "user", "content": prompt},
		},
		"temperature":     0.1,
		"max_tokens":      2048,
		"response_format": map[string]string{"type": "json_object"},
	}

	bs, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(bs))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("HTTP-Referer", b.referer)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: openrouter rejected credentials (status %d)", ErrBackendUnavailable, resp.StatusCode)
	case resp.StatusCode/100 != 2:
		return "", fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("no choices in openrouter response")
	}
	return decoded.Choices[0].Message.Content, nil
}
