package acquire

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-extractor/internal/types"
)

const sampleCVText = `Jane Doe
jane.doe@example.com | +1 555 010 0199

Experience
Software Engineer, Acme Corp, 2019-2023
- Built billing systems in Go

Education
BSc Computer Science, MIT, 2015-2019

Skills
Go, SQL, Kubernetes`

type fakeNative struct {
	text string
	err  error
}

func (f *fakeNative) ExtractText(path string) (string, error) {
	return f.text, f.err
}

type fakeOCR struct {
	text   string
	err    error
	called bool
}

func (f *fakeOCR) ExtractText(ctx context.Context, path string) (string, error) {
	f.called = true
	return f.text, f.err
}

func TestAcquire_NativeText(t *testing.T) {
	ocr := &fakeOCR{text: "unused"}
	adapter := NewAdapter(&fakeNative{text: sampleCVText}, ocr, 0)

	result, err := adapter.Acquire(context.Background(), "cv.pdf")
	require.NoError(t, err)

	assert.Equal(t, types.MethodNativeText, result.Method)
	assert.Contains(t, result.Text, "jane.doe@example.com")
	assert.False(t, ocr.called, "OCR must not run when native text is usable")
}

func TestAcquire_FallsBackToOCR(t *testing.T) {
	tests := []struct {
		name   string
		native *fakeNative
	}{
		{name: "empty text layer", native: &fakeNative{text: ""}},
		{name: "text below threshold", native: &fakeNative{text: "Page 1"}},
		{name: "native extraction error", native: &fakeNative{err: errors.New("corrupt xref table")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ocr := &fakeOCR{text: sampleCVText}
			adapter := NewAdapter(tt.native, ocr, 0)

			result, err := adapter.Acquire(context.Background(), "scan.pdf")
			require.NoError(t, err)

			assert.True(t, ocr.called)
			assert.Equal(t, types.MethodOCR, result.Method)
			assert.Contains(t, result.Text, "Jane Doe")
		})
	}
}

func TestAcquire_BothFail(t *testing.T) {
	adapter := NewAdapter(
		&fakeNative{err: errors.New("not a PDF")},
		&fakeOCR{err: errors.New("vision API unreachable")},
		0,
	)

	_, err := adapter.Acquire(context.Background(), "broken.pdf")
	require.Error(t, err)

	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, "broken.pdf", acqErr.Path)
}

func TestAcquire_OCREmptyText(t *testing.T) {
	adapter := NewAdapter(&fakeNative{text: ""}, &fakeOCR{text: "   \n  "}, 0)

	_, err := adapter.Acquire(context.Background(), "blank.pdf")
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
}

func TestAcquire_NoOCRConfigured(t *testing.T) {
	adapter := NewAdapter(&fakeNative{text: ""}, nil, 0)

	_, err := adapter.Acquire(context.Background(), "scan.pdf")
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
}

func TestCleanText(t *testing.T) {
	input := "Jane  Doe\r\n\r\n\r\n\r\nEngineer\t\tAcme\n\n\nGo   SQL"
	cleaned := CleanText(input)

	assert.Equal(t, "Jane Doe\n\nEngineer Acme\n\nGo SQL", cleaned)
}

func TestHeuristicConfidence(t *testing.T) {
	full := HeuristicConfidence(sampleCVText + strings.Repeat(" lorem", 100))
	assert.InDelta(t, 1.0, full, 1e-9)

	bare := HeuristicConfidence("short fragment")
	assert.InDelta(t, 0.2, bare, 1e-9)

	// More CV artifacts means more confidence.
	withEmail := HeuristicConfidence("contact: someone@example.com")
	assert.Greater(t, withEmail, bare)
}
