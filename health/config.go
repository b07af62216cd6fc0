package health

import (
	"fmt"
	"time"
)

// Config configures the health check engine.
//
// Unlike most knobs in this module, invalid values are rejected rather
// than silently defaulted: configuration mistakes must surface at setup
// time, before any check runs.
type Config struct {
	// Timeout is the per-attempt timeout applied to every probe that has
	// no component-specific override. Required, must be > 0.
	Timeout time.Duration

	// RetryCount is the number of additional attempts after a timeout or
	// transport failure. Zero means exactly one attempt. Retries never
	// apply to a probe's self-reported degraded/unhealthy result.
	RetryCount int

	// RetryDelay is an optional pause between attempts.
	// Default: 0 (retry immediately).
	RetryDelay time.Duration

	// EnabledComponents restricts checking to the named components when
	// non-empty. Every name must be registered; unknown names are a
	// configuration error, not a runtime error.
	EnabledComponents []string

	// ComponentTimeouts overrides Timeout for individual components.
	ComponentTimeouts map[string]time.Duration

	// MaxConcurrent bounds the number of probes running at once.
	// Default: 0 (all selected probes launch together).
	MaxConcurrent int
}

// Validate checks the configuration for values that can be rejected
// without consulting a registry. All failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("%w: retry count must be non-negative, got %d", ErrInvalidConfig, c.RetryCount)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay must be non-negative, got %v", ErrInvalidConfig, c.RetryDelay)
	}
	for name, timeout := range c.ComponentTimeouts {
		if timeout <= 0 {
			return fmt.Errorf("%w: timeout override for %q must be positive, got %v", ErrInvalidConfig, name, timeout)
		}
	}
	return nil
}

// effectiveTimeout returns the timeout for a component, preferring a
// per-component override over the global timeout.
func (c Config) effectiveTimeout(name string) time.Duration {
	if t, ok := c.ComponentTimeouts[name]; ok {
		return t
	}
	return c.Timeout
}
