package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-extractor/internal/acquire"
	"github.com/jonathan/cv-extractor/internal/llm"
	"github.com/jonathan/cv-extractor/internal/prompts"
	"github.com/jonathan/cv-extractor/internal/store"
	"github.com/jonathan/cv-extractor/internal/types"
)

const goodResponse = `{"name": "Jane Doe", "email": "jane@example.com", "skills": ["Go", "SQL"]}`

type fakeAcquirer struct {
	result *acquire.Result
	err    error
	calls  int
}

func (f *fakeAcquirer) Acquire(_ context.Context, _ string) (*acquire.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeInvoker struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeInvoker) Invoke(_ context.Context, modelID string, _ string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, modelID)
	f.mu.Unlock()
	if err, ok := f.errs[modelID]; ok {
		return "", err
	}
	return f.responses[modelID], nil
}

func testRoutes() llm.RoutingTable {
	return llm.RoutingTable{
		"alpha": {Family: prompts.FamilyLocal, Backends: []llm.BackendSpec{{Kind: llm.KindOllama, Model: "alpha"}}},
		"beta":  {Family: prompts.FamilyHosted, Backends: []llm.BackendSpec{{Kind: llm.KindOpenRouter, Model: "beta"}}},
	}
}

func testAcquired() *acquire.Result {
	return &acquire.Result{
		Text:       "Jane Doe\njane@example.com\nSkills: Go, SQL",
		Method:     types.MethodNativeText,
		Confidence: 0.6,
	}
}

func newTestOrchestrator(t *testing.T, acquirer Acquirer, invoker Invoker) *Orchestrator {
	t.Helper()
	orch, err := New(Options{
		Acquirer: acquirer,
		Invoker:  invoker,
		Routes:   testRoutes(),
	})
	require.NoError(t, err)
	return orch
}

func TestProcess_PartialFailure(t *testing.T) {
	acquirer := &fakeAcquirer{result: testAcquired()}
	invoker := &fakeInvoker{
		responses: map[string]string{"alpha": goodResponse},
		errs: map[string]error{
			"beta": &llm.ModelUnavailableError{ModelID: "beta"},
		},
	}
	orch := newTestOrchestrator(t, acquirer, invoker)

	results, err := orch.Process(context.Background(), "cv_001.pdf", []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	good := results["alpha"]
	require.NotNil(t, good.Record)
	assert.Nil(t, good.Failure)
	assert.Equal(t, "Jane Doe", good.Record.Name)
	assert.Equal(t, "alpha", good.Record.SourceModel)
	assert.Equal(t, types.MethodNativeText, good.Record.ExtractionMethod)
	require.NotNil(t, good.Record.RawConfidence)
	assert.InDelta(t, 0.6, *good.Record.RawConfidence, 1e-9)

	bad := results["beta"]
	require.NotNil(t, bad.Failure)
	assert.Nil(t, bad.Record)
	assert.Equal(t, types.ErrorKindModelUnavailable, bad.Failure.ErrorKind)

	assert.Equal(t, 1, acquirer.calls, "acquisition must happen once per document")
}

func TestProcess_AcquisitionFailureAbortsDocument(t *testing.T) {
	acquirer := &fakeAcquirer{err: &acquire.AcquisitionError{Path: "cv_001.pdf", Message: "no usable text"}}
	invoker := &fakeInvoker{}
	orch := newTestOrchestrator(t, acquirer, invoker)

	results, err := orch.Process(context.Background(), "cv_001.pdf", []string{"alpha"})
	require.Error(t, err)
	assert.Nil(t, results)

	var acqErr *acquire.AcquisitionError
	assert.ErrorAs(t, err, &acqErr)
	assert.Empty(t, invoker.calls, "no model may be invoked without text")
}

func TestProcess_UnknownModelFailsFast(t *testing.T) {
	acquirer := &fakeAcquirer{result: testAcquired()}
	orch := newTestOrchestrator(t, acquirer, &fakeInvoker{})

	_, err := orch.Process(context.Background(), "cv_001.pdf", []string{"gamma"})
	var configErr *llm.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, 0, acquirer.calls, "validation must precede acquisition")
}

func TestProcess_EmptyModelListUsesAllRoutes(t *testing.T) {
	acquirer := &fakeAcquirer{result: testAcquired()}
	invoker := &fakeInvoker{
		responses: map[string]string{"alpha": goodResponse, "beta": goodResponse},
	}
	orch := newTestOrchestrator(t, acquirer, invoker)

	results, err := orch.Process(context.Background(), "cv_001.pdf", nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Contains(t, results, "alpha")
	assert.Contains(t, results, "beta")
}

func TestProcess_NormalizationFailureIsPerModel(t *testing.T) {
	acquirer := &fakeAcquirer{result: testAcquired()}
	invoker := &fakeInvoker{
		responses: map[string]string{
			"alpha": "I could not find any structured data in this document.",
			"beta":  goodResponse,
		},
	}
	orch := newTestOrchestrator(t, acquirer, invoker)

	results, err := orch.Process(context.Background(), "cv_001.pdf", []string{"alpha", "beta"})
	require.NoError(t, err)

	require.NotNil(t, results["alpha"].Failure)
	assert.Equal(t, types.ErrorKindNormalization, results["alpha"].Failure.ErrorKind)
	require.NotNil(t, results["beta"].Record)
}

func TestProcess_PersistsTextAndResults(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	acquirer := &fakeAcquirer{result: testAcquired()}
	invoker := &fakeInvoker{responses: map[string]string{"alpha": goodResponse}}
	orch, err := New(Options{
		Acquirer: acquirer,
		Invoker:  invoker,
		Routes:   testRoutes(),
		Store:    st,
	})
	require.NoError(t, err)

	_, err = orch.Process(context.Background(), "/tmp/cv_001.pdf", []string{"alpha"})
	require.NoError(t, err)

	text, found, err := st.LoadText("cv_001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testAcquired().Text, text)

	var record types.CandidateRecord
	found, err = st.LoadResult("cv_001", "alpha", &record)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Jane Doe", record.Name)
}

func TestProcess_EmitsProgress(t *testing.T) {
	acquirer := &fakeAcquirer{result: testAcquired()}
	invoker := &fakeInvoker{responses: map[string]string{"alpha": goodResponse}}

	var mu sync.Mutex
	var stages []string
	orch, err := New(Options{
		Acquirer: acquirer,
		Invoker:  invoker,
		Routes:   testRoutes(),
		OnProgress: func(event ProgressEvent) {
			mu.Lock()
			stages = append(stages, event.Stage)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	_, err = orch.Process(context.Background(), "cv_001.pdf", []string{"alpha"})
	require.NoError(t, err)

	assert.Contains(t, stages, StageAcquire)
	assert.Contains(t, stages, StageInvoke)
	assert.Contains(t, stages, StageNormalize)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{Invoker: &fakeInvoker{}, Routes: testRoutes()})
	assert.Error(t, err)

	_, err = New(Options{Acquirer: &fakeAcquirer{}, Routes: testRoutes()})
	assert.Error(t, err)

	_, err = New(Options{Acquirer: &fakeAcquirer{}, Invoker: &fakeInvoker{}})
	assert.Error(t, err)
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, types.ErrorKindConfiguration,
		failureKind(&llm.ConfigurationError{Message: "bad"}))
	assert.Equal(t, types.ErrorKindModelUnavailable,
		failureKind(&llm.ModelUnavailableError{ModelID: "alpha"}))
	assert.Equal(t, types.ErrorKindModelUnavailable,
		failureKind(errors.New("socket closed")))
}
