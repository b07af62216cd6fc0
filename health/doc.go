// Package health implements a health-check orchestration engine.
//
// The engine runs a set of independently registered component probes
// concurrently, each under its own timeout and retry policy, isolates
// failures so one broken probe cannot crash or block the others, and
// aggregates the individual results into one system-wide verdict.
//
// # Core Concepts
//
// A Probe is any unit that can assess one component's health within
// bounded time. The Status type represents the health state: healthy,
// degraded, or unhealthy, in increasing order of severity. The overall
// status of a check run is the maximum severity among its components.
//
// # Basic Usage
//
//	registry := health.NewRegistry()
//	_ = registry.Register("database", probes.NewDatabaseProbe(db))
//	_ = registry.Register("cache", probes.NewCacheProbe(store))
//
//	checker, err := health.New(registry, health.Config{
//	    Timeout:    2 * time.Second,
//	    RetryCount: 1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	system := checker.CheckAll(ctx)
//	if system.Status != health.StatusHealthy {
//	    log.Printf("system %s", system.Status)
//	}
//
// Probe failures never propagate past the engine: a timeout or crash
// becomes an unhealthy Result with the failure captured in its Err
// field. Only configuration and registration mistakes fail fast, at
// setup time, before any check runs.
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Simple readiness contract: non-healthy collapses to "degraded"
//	http.Handle("/readyz", health.StatusHandler(checker))
//
//	// Full per-component detail
//	http.Handle("/health", health.DetailedHandler(checker))
package health
