// Package probes provides built-in health probes for common
// infrastructure components: AI model backends, cache backends,
// the resilience orchestrator, databases, and the Go runtime.
//
// Each probe is a thin adapter: it performs one externally defined
// health query and maps the outcome onto the health.Result contract.
// The shared design rule is that a soft condition with a working
// fallback maps to degraded, never unhealthy, since service continues
// in reduced form; a hard failure (missing credential, connection
// refused with no fallback) maps to unhealthy.
//
// Probes bound their own calls with the attempt context where they can,
// but the engine's timeout wrapper is the authoritative backstop.
package probes
