// Package llm abstracts over multiple model backends. Each logical model_id
// resolves to an ordered fallback chain of backend endpoints through a static
// routing table; the client tries each backend once and advances on failure.
package llm

import (
	"fmt"
	"sort"

	"github.com/jonathan/cv-extractor/internal/prompts"
)

// BackendKind identifies a backend implementation.
type BackendKind string

// Backend kinds
const (
	KindOllama     BackendKind = "ollama"
	KindOpenRouter BackendKind = "openrouter"
	KindGemini     BackendKind = "gemini"
)

// BackendSpec names one endpoint in a fallback chain: which backend
// implementation to use and the backend-side model name to request.
type BackendSpec struct {
	Kind  BackendKind `json:"kind"`
	Model string      `json:"model"`
}

// Route is the full routing entry for one logical model_id.
type Route struct {
	// Family picks the prompt template variant for this model.
	Family prompts.Family `json:"family"`
	// Backends are tried in order; the first success wins.
	Backends []BackendSpec `json:"backends"`
}

// RoutingTable maps logical model identifiers to their routes. Model-specific
// quirks (template variant, backend chain) are table rows, not code branches.
type RoutingTable map[string]Route

// DefaultRoutingTable returns the built-in routes: the three local models
// with hosted fallback, plus a hosted-only Gemini route.
func DefaultRoutingTable() RoutingTable {
	return RoutingTable{
		"llama3": {
			Family: prompts.FamilyLocal,
			Backends: []BackendSpec{
				{Kind: KindOllama, Model: "llama3:latest"},
				{Kind: KindOpenRouter, Model: "meta-llama/llama-3-8b-instruct:free"},
			},
		},
		"mistral": {
			Family: prompts.FamilyLocal,
			Backends: []BackendSpec{
				{Kind: KindOllama, Model: "mistral:latest"},
				{Kind: KindOpenRouter, Model: "mistralai/mistral-7b-instruct:free"},
			},
		},
		"phi": {
			Family: prompts.FamilyLocal,
			Backends: []BackendSpec{
				{Kind: KindOllama, Model: "phi:latest"},
			},
		},
		"gemini-flash": {
			Family: prompts.FamilyHosted,
			Backends: []BackendSpec{
				{Kind: KindGemini, Model: "gemini-1.5-flash"},
			},
		},
	}
}

// Validate checks that every requested model_id resolves to a nonempty
// backend chain. Returns a ConfigurationError for the first problem found.
func (t RoutingTable) Validate(modelIDs []string) error {
	if len(modelIDs) == 0 {
		return &ConfigurationError{Message: "no model ids requested"}
	}
	for _, id := range modelIDs {
		route, ok := t[id]
		if !ok {
			return &ConfigurationError{Message: fmt.Sprintf("unknown model id %q", id)}
		}
		if len(route.Backends) == 0 {
			return &ConfigurationError{Message: fmt.Sprintf("model id %q has an empty backend chain", id)}
		}
	}
	return nil
}

// ModelIDs returns the table's model identifiers in sorted order.
func (t RoutingTable) ModelIDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Family returns the prompt family for a model_id, defaulting to the local
// variant for unknown ids.
func (t RoutingTable) Family(modelID string) prompts.Family {
	if route, ok := t[modelID]; ok && route.Family != "" {
		return route.Family
	}
	return prompts.FamilyLocal
}
