package probes

import (
	"context"
	"fmt"

	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/resilience"
)

// ResilienceProbe reports the aggregate state of the resilience
// orchestrator's circuit breakers. Open breakers mean the orchestrator
// is shedding load from broken dependencies: that is reduced service,
// so anything short of every breaker being open maps to degraded.
type ResilienceProbe struct {
	orchestrator *resilience.Orchestrator
}

// NewResilienceProbe creates a probe over the given orchestrator.
func NewResilienceProbe(orchestrator *resilience.Orchestrator) *ResilienceProbe {
	return &ResilienceProbe{orchestrator: orchestrator}
}

// Name returns the component name this probe covers.
func (p *ResilienceProbe) Name() string {
	return "resilience"
}

// Check inspects every breaker's state.
func (p *ResilienceProbe) Check(ctx context.Context) (health.Result, error) {
	if p.orchestrator == nil {
		return health.Unhealthy(p.Name(), "resilience orchestrator not configured", nil), nil
	}

	states := p.orchestrator.Snapshot()
	if len(states) == 0 {
		return health.Healthy(p.Name(), "no guarded dependencies"), nil
	}

	var open, halfOpen int
	details := make(map[string]any, len(states)+2)
	for _, s := range states {
		details[s.Name] = map[string]any{
			"state":    s.State.String(),
			"failures": s.Failures,
		}
		switch s.State {
		case resilience.StateOpen:
			open++
		case resilience.StateHalfOpen:
			halfOpen++
		}
	}
	details["breakers"] = len(states)
	details["open"] = open

	switch {
	case open == len(states):
		return health.Unhealthy(p.Name(), "all circuit breakers open", resilience.ErrCircuitOpen).
			WithDetails(details), nil
	case open > 0 || halfOpen > 0:
		return health.Degraded(p.Name(),
			fmt.Sprintf("%d of %d circuit breakers not closed", open+halfOpen, len(states))).
			WithDetails(details), nil
	default:
		return health.Healthy(p.Name(), "all circuit breakers closed").WithDetails(details), nil
	}
}

// Ensure ResilienceProbe implements Probe
var _ health.Probe = (*ResilienceProbe)(nil)
