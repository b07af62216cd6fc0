// Package resilience guards calls to external dependencies with
// circuit breakers, bounded retries, and per-attempt timeouts.
//
// The Orchestrator owns one circuit breaker per named dependency and
// applies a shared execution policy:
//
//	orch := resilience.NewOrchestrator(resilience.Policy{
//	    MaxAttempts: 3,
//	    Timeout:     2 * time.Second,
//	}, resilience.BreakerConfig{MaxFailures: 5})
//
//	err := orch.Execute(ctx, "payments", func(ctx context.Context) error {
//	    return client.Charge(ctx, req)
//	})
//
// Snapshot exposes the per-breaker state so health probes can report
// the aggregate condition of all guarded dependencies.
package resilience
