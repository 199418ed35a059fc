// Package pipeline provides the high-level orchestration for the CV
// extraction process: one acquisition per document, then an isolated
// invoke+normalize sub-pipeline per requested model.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-extractor/internal/acquire"
	"github.com/jonathan/cv-extractor/internal/llm"
	"github.com/jonathan/cv-extractor/internal/normalize"
	"github.com/jonathan/cv-extractor/internal/prompts"
	"github.com/jonathan/cv-extractor/internal/store"
	"github.com/jonathan/cv-extractor/internal/types"
)

// Acquirer produces the document text shared by every model in a run.
type Acquirer interface {
	Acquire(ctx context.Context, path string) (*acquire.Result, error)
}

// Invoker sends a prompt to a logical model and returns the raw response.
type Invoker interface {
	Invoke(ctx context.Context, modelID string, prompt string) (string, error)
}

// Pipeline stages reported through progress events.
const (
	StageAcquire   = "acquire"
	StageInvoke    = "invoke"
	StageNormalize = "normalize"
)

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	DocumentID string `json:"document_id"`
	Model      string `json:"model,omitempty"`
	Stage      string `json:"stage"`
	Message    string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// DefaultMaxConcurrent bounds how many model sub-pipelines run at once.
const DefaultMaxConcurrent = 3

// Options holds the collaborators for an Orchestrator.
type Options struct {
	Acquirer      Acquirer
	Invoker       Invoker
	Routes        llm.RoutingTable
	Store         *store.Store // optional result persistence
	MaxConcurrent int
	OnProgress    ProgressCallback
}

// Orchestrator drives the extraction pipeline per document per model set.
type Orchestrator struct {
	acquirer      Acquirer
	invoker       Invoker
	routes        llm.RoutingTable
	store         *store.Store
	maxConcurrent int
	onProgress    ProgressCallback
}

// New creates an Orchestrator. Acquirer, Invoker and Routes are required.
func New(opts Options) (*Orchestrator, error) {
	if opts.Acquirer == nil {
		return nil, &llm.ConfigurationError{Message: "orchestrator requires an acquirer"}
	}
	if opts.Invoker == nil {
		return nil, &llm.ConfigurationError{Message: "orchestrator requires a model invoker"}
	}
	if len(opts.Routes) == 0 {
		return nil, &llm.ConfigurationError{Message: "orchestrator requires a routing table"}
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Orchestrator{
		acquirer:      opts.Acquirer,
		invoker:       opts.Invoker,
		routes:        opts.Routes,
		store:         opts.Store,
		maxConcurrent: maxConcurrent,
		onProgress:    opts.OnProgress,
	}, nil
}

// ModelIDs returns every routed model identifier in sorted order.
func (o *Orchestrator) ModelIDs() []string {
	return o.routes.ModelIDs()
}

// Process runs the full pipeline for one document: acquire once, then fan
// out invoke+normalize across the requested models. Every requested model
// gets an entry in the returned map, holding either a CandidateRecord or a
// failure descriptor. An empty model list means every routed model.
//
// Acquisition failure aborts the whole call; no per-model result is
// possible without text.
func (o *Orchestrator) Process(ctx context.Context, docPath string, modelIDs []string) (map[string]types.ModelResult, error) {
	if len(modelIDs) == 0 {
		modelIDs = o.routes.ModelIDs()
	}
	if err := o.routes.Validate(modelIDs); err != nil {
		return nil, err
	}

	docID := store.DocumentID(docPath)

	o.emit(docID, "", StageAcquire, fmt.Sprintf("acquiring text from %s", docPath))
	acquired, err := o.acquirer.Acquire(ctx, docPath)
	if err != nil {
		return nil, err
	}
	o.emit(docID, "", StageAcquire,
		fmt.Sprintf("acquired %d chars via %s", len(acquired.Text), acquired.Method))

	if o.store != nil {
		// Persisting the text is a cache, not a pipeline step; a write
		// failure must not abort extraction.
		_ = o.store.SaveText(docID, acquired.Text)
	}

	results := make([]types.ModelResult, len(modelIDs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrent)
	for i, modelID := range modelIDs {
		g.Go(func() error {
			results[i] = o.runModel(gCtx, docID, modelID, acquired)
			return nil
		})
	}
	// Sub-pipelines report failures through the result map, never as a
	// group error.
	_ = g.Wait()

	out := make(map[string]types.ModelResult, len(modelIDs))
	for i, modelID := range modelIDs {
		out[modelID] = results[i]
	}
	return out, nil
}

// runModel executes the invoke+normalize sub-pipeline for one model.
func (o *Orchestrator) runModel(ctx context.Context, docID, modelID string, acquired *acquire.Result) types.ModelResult {
	prompt, err := prompts.Build(acquired.Text, o.routes.Family(modelID))
	if err != nil {
		return failureResult(types.ErrorKindConfiguration, err)
	}

	o.emit(docID, modelID, StageInvoke, "invoking model")
	raw, err := o.invoker.Invoke(ctx, modelID, prompt)
	if err != nil {
		o.emit(docID, modelID, StageInvoke, fmt.Sprintf("invoke failed: %v", err))
		return failureResult(failureKind(err), err)
	}

	o.emit(docID, modelID, StageNormalize, "normalizing response")
	confidence := acquired.Confidence
	record, err := normalize.Normalize(raw, modelID, acquired.Method, &confidence)
	if err != nil {
		o.emit(docID, modelID, StageNormalize, fmt.Sprintf("normalization failed: %v", err))
		return failureResult(types.ErrorKindNormalization, err)
	}

	if o.store != nil {
		_ = o.store.SaveResult(docID, modelID, record)
	}
	return types.ModelResult{Record: record}
}

func (o *Orchestrator) emit(docID, model, stage, message string) {
	if o.onProgress != nil {
		o.onProgress(ProgressEvent{
			DocumentID: docID,
			Model:      model,
			Stage:      stage,
			Message:    message,
		})
	}
}

func failureResult(kind string, err error) types.ModelResult {
	return types.ModelResult{
		Failure: &types.ExtractionFailure{
			ErrorKind: kind,
			Message:   err.Error(),
		},
	}
}

// failureKind maps an invoke error to its descriptor kind. Anything that
// is not a recognized configuration problem counts as the model being
// unavailable for this run.
func failureKind(err error) string {
	var unavailable *llm.ModelUnavailableError
	var config *llm.ConfigurationError
	switch {
	case errors.As(err, &config):
		return types.ErrorKindConfiguration
	case errors.As(err, &unavailable):
		return types.ErrorKindModelUnavailable
	default:
		return types.ErrorKindModelUnavailable
	}
}
