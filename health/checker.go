package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthops/observe"
)

// Checker is the health check engine. It runs every selected probe
// concurrently under a per-component timeout and retry policy, isolates
// probe failures, and aggregates the results into a SystemHealth.
//
// Contract:
// - Concurrency: safe for concurrent use; overlapping invocations share
//   nothing but the registry and never corrupt each other.
// - Errors: CheckAll never fails for reasons internal to a probe; every
//   probe-level timeout or crash becomes unhealthy component data.
type Checker struct {
	registry *Registry
	config   Config
	logger   observe.Logger
	metrics  *observe.CheckMetrics
	tracer   trace.Tracer
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for probe failures and retries.
func WithLogger(logger observe.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for per-check telemetry.
func WithMetrics(metrics *observe.CheckMetrics) Option {
	return func(c *Checker) {
		c.metrics = metrics
	}
}

// WithTracer sets the tracer used to span check invocations.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Checker) {
		c.tracer = tracer
	}
}

// New creates a health check engine over the given registry.
//
// Configuration is validated here, before any check runs: an invalid
// timeout or retry count, or an enabled component that is not registered,
// fails construction with ErrInvalidConfig.
func New(registry *Registry, config Config, opts ...Option) (*Checker, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: registry is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for _, name := range config.EnabledComponents {
		if _, err := registry.Get(name); err != nil {
			return nil, fmt.Errorf("%w: enabled component %q is not registered", ErrInvalidConfig, name)
		}
	}

	c := &Checker{
		registry: registry,
		config:   config,
		logger:   observe.NopLogger(),
		tracer:   tracenoop.NewTracerProvider().Tracer("healthops"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the engine configuration.
func (c *Checker) Config() Config {
	return c.config
}

// CheckAll runs all selected probes concurrently and returns the
// aggregated system health. The component list is in registration order
// regardless of completion order. CheckAll never returns an error: probe
// failures are absorbed into the per-component results.
func (c *Checker) CheckAll(ctx context.Context) SystemHealth {
	ctx, span := c.tracer.Start(ctx, "health.check_all")
	defer span.End()

	checkedAt := time.Now()
	names := c.selected()
	results := make([]Result, len(names))

	g := new(errgroup.Group)
	if c.config.MaxConcurrent > 0 {
		g.SetLimit(c.config.MaxConcurrent)
	}
	for i, name := range names {
		g.Go(func() error {
			// Each probe owns its result slot, so completion order
			// never leaks into the output order.
			results[i] = c.runProbe(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	overall := OverallStatus(results)
	c.logger.Debug(ctx, "health check completed",
		observe.Field{Key: "status", Value: overall.String()},
		observe.Field{Key: "components", Value: len(results)},
		observe.Field{Key: "elapsed", Value: time.Since(checkedAt).String()},
	)

	return SystemHealth{
		Status:     overall,
		Components: results,
		CheckedAt:  checkedAt,
	}
}

// CheckComponent runs a single named probe under the same timeout and
// retry policy as CheckAll. It fails with ErrUnknownComponent if the
// name is not registered.
func (c *Checker) CheckComponent(ctx context.Context, name string) (Result, error) {
	probe, err := c.registry.Get(name)
	if err != nil {
		return Result{}, err
	}

	ctx, span := c.tracer.Start(ctx, "health.check_component")
	defer span.End()

	return c.execute(ctx, name, probe), nil
}

// selected returns the component names to run, in registration order.
// A non-empty enabled set restricts the selection; membership was
// validated at construction time.
func (c *Checker) selected() []string {
	names := c.registry.Names()
	if len(c.config.EnabledComponents) == 0 {
		return names
	}

	enabled := make(map[string]bool, len(c.config.EnabledComponents))
	for _, name := range c.config.EnabledComponents {
		enabled[name] = true
	}

	selected := make([]string, 0, len(c.config.EnabledComponents))
	for _, name := range names {
		if enabled[name] {
			selected = append(selected, name)
		}
	}
	return selected
}

func (c *Checker) runProbe(ctx context.Context, name string) Result {
	probe, err := c.registry.Get(name)
	if err != nil {
		return Unhealthy(name, "component not registered", err)
	}
	return c.execute(ctx, name, probe)
}

// execute applies the retry policy around individual attempts. Only
// transport-level failures (timeout, error, panic) consume attempts; a
// probe's self-reported status is accepted as-is, since a probe may
// legitimately and deterministically report degradation.
func (c *Checker) execute(ctx context.Context, name string, probe Probe) Result {
	timeout := c.config.effectiveTimeout(name)
	attempts := c.config.RetryCount + 1
	start := time.Now()

	var result Result
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := c.attempt(ctx, name, probe, timeout)
		if err == nil {
			result = res
			break
		}

		c.logger.Warn(ctx, "probe attempt failed",
			observe.Field{Key: "component", Value: name},
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "error", Value: err.Error()},
		)

		if attempt == attempts {
			// A probe returning its context's deadline error is the
			// same outcome as the engine's own timer firing.
			if errors.Is(err, ErrProbeTimeout) || errors.Is(err, context.DeadlineExceeded) {
				result = Unhealthy(name, fmt.Sprintf("timed out after %v", timeout), err).
					WithDuration(timeout)
			} else {
				result = Unhealthy(name, "probe failed", err).
					WithDuration(time.Since(start))
			}
			break
		}

		if c.config.RetryDelay > 0 {
			select {
			case <-time.After(c.config.RetryDelay):
			case <-ctx.Done():
			}
		}
	}

	c.metrics.Record(ctx, name, result.Status.String(), result.Duration, result.Err)
	return result
}

// attempt races one probe invocation against its timeout. On expiry the
// attempt is abandoned: the engine stops waiting, but the underlying call
// is not guaranteed to be cancelled beyond the context signal.
func (c *Checker) attempt(ctx context.Context, name string, probe Probe, timeout time.Duration) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrProbePanic, rec)}
			}
		}()
		res, err := probe.Check(ctx)
		done <- outcome{result: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return Result{}, out.err
		}
		res := out.result
		if res.Component == "" {
			res.Component = name
		}
		res.Duration = time.Since(start)
		if res.Timestamp.IsZero() {
			res.Timestamp = start
		}
		return res, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w after %v", ErrProbeTimeout, timeout)
		}
		return Result{}, ctx.Err()
	}
}
