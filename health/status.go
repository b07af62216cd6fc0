package health

import (
	"time"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with reduced guarantees.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Worse returns the more severe of two statuses.
// Severity order: healthy < degraded < unhealthy.
func (s Status) Worse(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// Result contains the outcome of a single component probe.
// Results are value types; once produced they are never mutated.
type Result struct {
	// Component is the registered name of the probed component.
	Component string

	// Status is the health status.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary diagnostic metadata about the probe.
	Details map[string]any

	// Duration is how long the accepted attempt took. When the probe
	// timed out on every attempt, Duration equals the effective timeout;
	// when it failed on every attempt, Duration is the elapsed time
	// across attempts.
	Duration time.Duration

	// Timestamp is when the probe was performed.
	Timestamp time.Time

	// Err is the captured failure when Status is not healthy.
	Err error
}

// Healthy creates a healthy result for the named component.
func Healthy(component, message string) Result {
	return Result{
		Component: component,
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Degraded creates a degraded result for the named component.
func Degraded(component, message string) Result {
	return Result{
		Component: component,
		Status:    StatusDegraded,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Unhealthy creates an unhealthy result for the named component.
func Unhealthy(component, message string, err error) Result {
	return Result{
		Component: component,
		Status:    StatusUnhealthy,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// WithDetails adds details to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration sets the duration on a result.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// SystemHealth is the aggregated outcome of one engine invocation.
// Status is always computed from Components, never set directly.
type SystemHealth struct {
	// Status is the maximum severity among all component results.
	Status Status

	// Components holds one result per selected component, in
	// registration order regardless of completion order.
	Components []Result

	// CheckedAt is when the evaluation started.
	CheckedAt time.Time
}

// OverallStatus computes the aggregate status for a set of results.
// An empty set aggregates to healthy by convention: with nothing
// selected there is nothing wrong to report.
func OverallStatus(results []Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		overall = overall.Worse(r.Status)
	}
	return overall
}
