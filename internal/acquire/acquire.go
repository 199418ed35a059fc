// Package acquire wraps text extraction from CV documents: native PDF text
// first, OCR fallback for scanned documents, plus a quality signal for the
// produced text.
package acquire

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/cv-extractor/internal/types"
)

// NativeExtractor reads the embedded text layer of a document.
type NativeExtractor interface {
	ExtractText(path string) (string, error)
}

// OCRExtractor recovers text from scanned documents.
type OCRExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Result is the outcome of text acquisition for one document.
type Result struct {
	Text       string
	Method     types.ExtractionMethod
	Confidence float64
}

// DefaultMinTextLength is the minimum trimmed length below which native
// extraction is considered unusable and OCR kicks in. Short of this, the
// "text layer" is usually just page furniture in an otherwise scanned PDF.
const DefaultMinTextLength = 120

// Adapter selects the extraction strategy per document.
type Adapter struct {
	native        NativeExtractor
	ocr           OCRExtractor
	minTextLength int
}

// NewAdapter creates an adapter over the given extractors. The OCR extractor
// may be nil; acquisition then fails when native extraction is unusable.
func NewAdapter(native NativeExtractor, ocr OCRExtractor, minTextLength int) *Adapter {
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	return &Adapter{
		native:        native,
		ocr:           ocr,
		minTextLength: minTextLength,
	}
}

// Acquire extracts text from the document at path. Native extraction is
// attempted first; when it yields nothing usable, the adapter falls back to
// OCR. Both failing is an AcquisitionError.
func (a *Adapter) Acquire(ctx context.Context, path string) (*Result, error) {
	text, nativeErr := a.native.ExtractText(path)
	if nativeErr == nil {
		cleaned := CleanText(text)
		if len(cleaned) >= a.minTextLength {
			return &Result{
				Text:       cleaned,
				Method:     types.MethodNativeText,
				Confidence: HeuristicConfidence(cleaned),
			}, nil
		}
	}

	if a.ocr == nil {
		return nil, &AcquisitionError{
			Path:    path,
			Message: "native extraction yielded no usable text and no OCR extractor is configured",
			Cause:   nativeErr,
		}
	}

	ocrText, ocrErr := a.ocr.ExtractText(ctx, path)
	if ocrErr != nil {
		return nil, &AcquisitionError{
			Path:    path,
			Message: "both native and OCR extraction failed",
			Cause:   ocrErr,
		}
	}

	cleaned := CleanText(ocrText)
	if cleaned == "" {
		return nil, &AcquisitionError{
			Path:    path,
			Message: "no usable text obtained from document",
		}
	}

	return &Result{
		Text:       cleaned,
		Method:     types.MethodOCR,
		Confidence: HeuristicConfidence(cleaned),
	}, nil
}

var multiSpaceRe = regexp.MustCompile(`[ \t]+`)

// CleanText normalizes extracted text: unified line endings, collapsed
// horizontal whitespace, at most one blank line between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.TrimSpace(multiSpaceRe.ReplaceAllString(line, " "))
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
