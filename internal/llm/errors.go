package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBackendUnavailable signals that a backend cannot serve requests at all
// (not configured, missing credentials, model not installed). The client
// advances to the next backend in the chain without retrying.
var ErrBackendUnavailable = errors.New("backend unavailable")

// AttemptError records one failed backend attempt inside a fallback chain.
type AttemptError struct {
	Backend string
	Model   string
	Err     error
}

func (a AttemptError) String() string {
	return fmt.Sprintf("%s(%s): %v", a.Backend, a.Model, a.Err)
}

// ModelUnavailableError is returned only after every backend in a model's
// fallback chain has failed. It carries per-backend diagnostics.
type ModelUnavailableError struct {
	ModelID  string
	Attempts []AttemptError
}

func (e *ModelUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("model %s unavailable: all backends failed [%s]", e.ModelID, strings.Join(parts, "; "))
}

// ConfigurationError indicates an unknown model_id or a backend that cannot
// be constructed from the current configuration. It fails fast, before any
// work starts.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}
