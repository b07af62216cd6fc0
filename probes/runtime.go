package probes

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jonwraymond/healthops/health"
)

// RuntimeProbeConfig configures the Go runtime probe.
type RuntimeProbeConfig struct {
	// WarningThreshold is the fraction of MaxAlloc that reports degraded.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the fraction of MaxAlloc that reports unhealthy.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// MaxAlloc is the maximum expected heap allocation in bytes.
	// Default: 0 (use the runtime's obtained-from-system figure).
	MaxAlloc uint64
}

// RuntimeProbe reports on the process's own memory pressure.
type RuntimeProbe struct {
	config RuntimeProbeConfig
}

// NewRuntimeProbe creates a runtime memory probe.
func NewRuntimeProbe(config RuntimeProbeConfig) *RuntimeProbe {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold
	}
	return &RuntimeProbe{config: config}
}

// Name returns the component name this probe covers.
func (p *RuntimeProbe) Name() string {
	return "runtime"
}

// Check reads runtime memory statistics and maps heap pressure onto the
// health thresholds.
func (p *RuntimeProbe) Check(ctx context.Context) (health.Result, error) {
	select {
	case <-ctx.Done():
		return health.Result{}, ctx.Err()
	default:
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	maxAlloc := p.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}

	details := map[string]any{
		"alloc_bytes":  stats.Alloc,
		"heap_alloc":   stats.HeapAlloc,
		"heap_sys":     stats.HeapSys,
		"heap_objects": stats.HeapObjects,
		"num_gc":       stats.NumGC,
		"goroutines":   runtime.NumGoroutine(),
	}

	if maxAlloc == 0 {
		return health.Healthy(p.Name(), "memory stats unavailable").WithDetails(details), nil
	}

	usage := float64(stats.Alloc) / float64(maxAlloc)
	details["usage_percent"] = usage * 100

	switch {
	case usage >= p.config.CriticalThreshold:
		return health.Unhealthy(p.Name(),
			fmt.Sprintf("memory usage critical: %.1f%%", usage*100), nil).WithDetails(details), nil
	case usage >= p.config.WarningThreshold:
		return health.Degraded(p.Name(),
			fmt.Sprintf("memory usage high: %.1f%%", usage*100)).WithDetails(details), nil
	default:
		return health.Healthy(p.Name(),
			fmt.Sprintf("memory usage normal: %.1f%%", usage*100)).WithDetails(details), nil
	}
}

// Ensure RuntimeProbe implements Probe
var _ health.Probe = (*RuntimeProbe)(nil)
