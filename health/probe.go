package health

import "context"

// Probe is the contract for a single component health check.
//
// Contract:
// - Concurrency: a probe may run concurrently with other probes and with
//   overlapping invocations of itself; it must not share mutable state.
// - Context: Check must honor cancellation/deadlines; the engine's timeout
//   is the authoritative backstop either way.
// - Errors: a returned error is a transport-level failure (connection
//   refused, crash) and is subject to the engine's retry policy. A probe
//   that can still produce a meaningful verdict should instead return a
//   degraded or unhealthy Result with a nil error; self-reported results
//   are accepted as-is and never retried.
type Probe interface {
	// Name returns the component name this probe covers.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) (Result, error)
}

// ProbeFunc is an adapter to allow ordinary functions to be used as Probes.
type ProbeFunc struct {
	name string
	fn   func(context.Context) (Result, error)
}

// NewProbeFunc creates a new ProbeFunc.
func NewProbeFunc(name string, fn func(context.Context) (Result, error)) *ProbeFunc {
	return &ProbeFunc{name: name, fn: fn}
}

// Name returns the component name this probe covers.
func (f *ProbeFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *ProbeFunc) Check(ctx context.Context) (Result, error) {
	return f.fn(ctx)
}
