package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend is a concrete model-serving endpoint. Implementations make a
// single attempt per call; retries and fallback live in the Client.
type Backend interface {
	// Kind identifies the backend implementation for routing and diagnostics.
	Kind() BackendKind
	// Call sends the prompt to the named backend-side model and returns the
	// raw response text. Respect ctx for timeout and cancellation.
	Call(ctx context.Context, model string, prompt string) (string, error)
}

// Client resolves logical model ids to backend fallback chains and invokes
// them. Timeout is per backend attempt, not cumulative: total wall-clock per
// model_id is bounded by len(chain) * AttemptTimeout.
type Client struct {
	routes         RoutingTable
	backends       map[BackendKind]Backend
	attemptTimeout time.Duration
}

// ClientOptions holds construction parameters for the client.
type ClientOptions struct {
	Routes         RoutingTable
	Backends       []Backend
	AttemptTimeout time.Duration
}

// DefaultAttemptTimeout bounds a single backend attempt.
const DefaultAttemptTimeout = 120 * time.Second

// NewClient creates a client over the given routing table and backends.
func NewClient(opts ClientOptions) *Client {
	if opts.Routes == nil {
		opts.Routes = DefaultRoutingTable()
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}

	backends := make(map[BackendKind]Backend, len(opts.Backends))
	for _, b := range opts.Backends {
		backends[b.Kind()] = b
	}

	return &Client{
		routes:         opts.Routes,
		backends:       backends,
		attemptTimeout: opts.AttemptTimeout,
	}
}

// Routes exposes the routing table for prompt-family lookup and validation.
func (c *Client) Routes() RoutingTable {
	return c.routes
}

// Invoke sends the prompt to the model's backend chain and returns the first
// successful raw response. Each backend gets exactly one attempt; the client
// advances on timeout, connection failure, or an unavailable-backend signal.
// A ModelUnavailableError is returned only after the whole chain failed.
func (c *Client) Invoke(ctx context.Context, modelID string, prompt string) (string, error) {
	route, ok := c.routes[modelID]
	if !ok {
		return "", &ConfigurationError{Message: fmt.Sprintf("unknown model id %q", modelID)}
	}

	attempts := make([]AttemptError, 0, len(route.Backends))
	for _, spec := range route.Backends {
		backend, ok := c.backends[spec.Kind]
		if !ok {
			attempts = append(attempts, AttemptError{
				Backend: string(spec.Kind),
				Model:   spec.Model,
				Err:     fmt.Errorf("%w: not configured", ErrBackendUnavailable),
			})
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		text, err := backend.Call(attemptCtx, spec.Model, prompt)
		cancel()

		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		attempts = append(attempts, AttemptError{
			Backend: string(spec.Kind),
			Model:   spec.Model,
			Err:     err,
		})

		// Stop walking the chain once the caller itself is gone.
		if ctx.Err() != nil {
			break
		}
	}

	return "", &ModelUnavailableError{ModelID: modelID, Attempts: attempts}
}
