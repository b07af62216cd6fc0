package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateHalfOpen means the circuit is testing if the dependency recovered.
	StateHalfOpen
	// StateOpen means the circuit is blocking all requests.
	StateOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long to wait before attempting recovery.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(name string, from, to State)
}

// Breaker implements the circuit breaker pattern for one named dependency.
type Breaker struct {
	name   string
	config BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// NewBreaker creates a circuit breaker for the named dependency.
func NewBreaker(name string, config BreakerConfig) *Breaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}

	return &Breaker{
		name:   name,
		config: config,
		state:  StateClosed,
	}
}

// Name returns the dependency name this breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// Execute runs the operation through the circuit breaker.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	b.afterRequest(err)
	return err
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked()
}

// Snapshot returns the current breaker state for health reporting.
func (b *Breaker) Snapshot() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BreakerState{
		Name:        b.name,
		State:       b.currentStateLocked(),
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

// Reset forces the breaker back to closed state.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state
	b.state = StateClosed
	b.failures = 0
	b.probing = false

	if from != StateClosed && b.config.OnStateChange != nil {
		b.config.OnStateChange(b.name, from, StateClosed)
	}
}

func (b *Breaker) beforeRequest() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		// One probe request at a time while half-open.
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) afterRequest(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state

	switch b.state {
	case StateClosed:
		if err != nil {
			b.failures++
			b.lastFailure = time.Now()
			if b.failures >= b.config.MaxFailures {
				b.state = StateOpen
			}
		} else {
			b.failures = 0
		}

	case StateHalfOpen:
		b.probing = false
		if err != nil {
			// Probe failed; restart the open interval.
			b.lastFailure = time.Now()
			b.state = StateOpen
		} else {
			b.state = StateClosed
			b.failures = 0
		}
	}

	if from != b.state && b.config.OnStateChange != nil {
		b.config.OnStateChange(b.name, from, b.state)
	}
}

func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && time.Since(b.lastFailure) >= b.config.ResetTimeout {
		b.state = StateHalfOpen
		b.probing = false
		if b.config.OnStateChange != nil {
			b.config.OnStateChange(b.name, StateOpen, StateHalfOpen)
		}
	}
	return b.state
}

// BreakerState is a point-in-time view of one breaker.
type BreakerState struct {
	Name        string
	State       State
	Failures    int
	LastFailure time.Time
}
