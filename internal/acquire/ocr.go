package acquire

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/cv-extractor/internal/prompts"
)

// DefaultOCRModel is the vision model used for scanned documents.
const DefaultOCRModel = "gemini-1.5-flash"

// GeminiOCR extracts text from scanned PDFs by sending the document to a
// Gemini vision model with an OCR instruction.
type GeminiOCR struct {
	client *genai.Client
	model  string
}

// NewGeminiOCR creates the OCR extractor. An empty model selects the default.
func NewGeminiOCR(ctx context.Context, apiKey, model string) (*GeminiOCR, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required for OCR")
	}
	if model == "" {
		model = DefaultOCRModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiOCR{client: client, model: model}, nil
}

// ExtractText runs OCR over the document at path.
func (g *GeminiOCR) ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	m := g.client.GenerativeModel(g.model)
	resp, err := m.GenerateContent(ctx,
		genai.Text(prompts.OCRPage()),
		genai.Blob{MIMEType: "application/pdf", Data: data},
	)
	if err != nil {
		return "", fmt.Errorf("gemini OCR failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content in OCR response")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// Close releases resources held by the underlying SDK client.
func (g *GeminiOCR) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
