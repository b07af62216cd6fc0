package resilience

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Policy is the execution policy the orchestrator applies around every
// guarded call: bounded attempts, an optional pause between them, and a
// per-attempt timeout.
type Policy struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// Delay is the pause between attempts.
	// Default: 100ms
	Delay time.Duration

	// Timeout is the per-attempt timeout. Zero disables it.
	Timeout time.Duration

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors except ErrCircuitOpen.
	RetryIf func(err error) bool
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Delay <= 0 {
		p.Delay = 100 * time.Millisecond
	}
	if p.RetryIf == nil {
		p.RetryIf = func(err error) bool {
			return err != nil && !errors.Is(err, ErrCircuitOpen)
		}
	}
	return p
}

// Orchestrator guards calls to external dependencies with per-dependency
// circuit breakers and a shared retry/timeout policy. Its aggregate
// breaker state is what the resilience health probe reports on.
type Orchestrator struct {
	policy  Policy
	breaker BreakerConfig

	mu       sync.RWMutex
	breakers map[string]*Breaker
}

// NewOrchestrator creates an orchestrator with the given policy applied
// to every dependency and breakerConfig applied to every breaker.
func NewOrchestrator(policy Policy, breakerConfig BreakerConfig) *Orchestrator {
	return &Orchestrator{
		policy:   policy.withDefaults(),
		breaker:  breakerConfig,
		breakers: make(map[string]*Breaker),
	}
}

// Breaker returns the breaker guarding the named dependency, creating
// it on first use.
func (o *Orchestrator) Breaker(name string) *Breaker {
	o.mu.RLock()
	b, ok := o.breakers[name]
	o.mu.RUnlock()
	if ok {
		return b
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if b, ok = o.breakers[name]; ok {
		return b
	}
	b = NewBreaker(name, o.breaker)
	o.breakers[name] = b
	return b
}

// Execute runs op against the named dependency: through its circuit
// breaker, with retries and a per-attempt timeout per the policy. An
// open circuit fails immediately without consuming retries.
func (o *Orchestrator) Execute(ctx context.Context, name string, op func(context.Context) error) error {
	breaker := o.Breaker(name)

	var lastErr error
	for attempt := 1; attempt <= o.policy.MaxAttempts; attempt++ {
		err := breaker.Execute(ctx, func(ctx context.Context) error {
			return o.attempt(ctx, op)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if !o.policy.RetryIf(err) {
			return err
		}
		if attempt >= o.policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.policy.Delay):
		}
	}
	return lastErr
}

// attempt races one invocation against the per-attempt timeout.
func (o *Orchestrator) attempt(ctx context.Context, op func(context.Context) error) error {
	if o.policy.Timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, o.policy.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Snapshot returns the state of every breaker, sorted by name for
// stable reporting.
func (o *Orchestrator) Snapshot() []BreakerState {
	o.mu.RLock()
	states := make([]BreakerState, 0, len(o.breakers))
	for _, b := range o.breakers {
		states = append(states, b.Snapshot())
	}
	o.mu.RUnlock()

	sort.Slice(states, func(i, j int) bool {
		return states[i].Name < states[j].Name
	})
	return states
}

// Reset forces every breaker back to closed state.
func (o *Orchestrator) Reset() {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, b := range o.breakers {
		b.Reset()
	}
}
