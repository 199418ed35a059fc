package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultOllamaBaseURL is the standard local Ollama endpoint.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaBackend drives a local Ollama server through its generate API.
type OllamaBackend struct {
	baseURL    string
	httpClient *http.Client
	// Options forwarded to the model; low temperature keeps extraction output
	// stable across runs.
	temperature float64
	contextLen  int
}

// NewOllamaBackend creates a backend for the given base URL. An empty URL
// selects the default local endpoint. The http.Client carries no timeout of
// its own; per-attempt deadlines come from the caller's context.
func NewOllamaBackend(baseURL string) *OllamaBackend {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	return &OllamaBackend{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		temperature: 0.01,
		contextLen:  8192,
	}
}

// Kind identifies this backend in routing tables.
func (b *OllamaBackend) Kind() BackendKind {
	return KindOllama
}

// Call sends a non-streaming generate request and returns the response text.
func (b *OllamaBackend) Call(ctx context.Context, model string, prompt string) (string, error) {
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": b.temperature,
			"num_ctx":     b.contextLen,
			"num_predict": b.contextLen,
		},
	}

	raw, status, err := b.postJSON(ctx, b.baseURL+"/api/generate", payload)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		// Model not pulled locally: treat as unavailable so the chain advances.
		return "", fmt.Errorf("%w: model %q not installed", ErrBackendUnavailable, model)
	}
	if status/100 != 2 {
		return "", fmt.Errorf("ollama returned status %d", status)
	}

	var decoded struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if decoded.Response == "" {
		return "", fmt.Errorf("unexpected response format from ollama")
	}
	return decoded.Response, nil
}

func (b *OllamaBackend) postJSON(ctx context.Context, url string, body any) ([]byte, int, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}
