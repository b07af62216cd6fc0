package probes

import (
	"context"

	"github.com/jonwraymond/healthops/cache"
	"github.com/jonwraymond/healthops/health"
)

// fallbackReporter is implemented by caches that can fail over to a
// local tier, such as cache.Fallback.
type fallbackReporter interface {
	UsingFallback() bool
	LastError() error
}

// CacheProbe checks cache backend reachability with graceful fallback
// detection: an unreachable primary with an active in-process fallback
// is degraded, not unhealthy, because service continues in reduced form.
type CacheProbe struct {
	store cache.Cache
}

// NewCacheProbe creates a cache probe over any cache backend.
func NewCacheProbe(store cache.Cache) *CacheProbe {
	return &CacheProbe{store: store}
}

// Name returns the component name this probe covers.
func (p *CacheProbe) Name() string {
	return "cache"
}

// Check pings the cache backend when it supports pinging. In-process
// caches without a Pinger are trivially healthy.
func (p *CacheProbe) Check(ctx context.Context) (health.Result, error) {
	if p.store == nil {
		return health.Unhealthy(p.Name(), "cache not configured", cache.ErrNilCache), nil
	}

	pinger, ok := p.store.(cache.Pinger)
	if !ok {
		return health.Healthy(p.Name(), "in-process cache active").WithDetails(p.details()), nil
	}

	err := pinger.Ping(ctx)
	if err == nil {
		return health.Healthy(p.Name(), "cache backend reachable").WithDetails(p.details()), nil
	}

	if reporter, ok := p.store.(fallbackReporter); ok && reporter.UsingFallback() {
		result := health.Degraded(p.Name(), "cache backend unreachable, in-process fallback active")
		result.Err = err
		return result.WithDetails(p.details()), nil
	}

	return health.Unhealthy(p.Name(), "cache backend unreachable", err), nil
}

func (p *CacheProbe) details() map[string]any {
	details := map[string]any{}
	if reporter, ok := p.store.(fallbackReporter); ok {
		details["fallback_active"] = reporter.UsingFallback()
		if err := reporter.LastError(); err != nil {
			details["last_error"] = err.Error()
		}
	}
	if fb, ok := p.store.(*cache.Fallback); ok {
		hits, misses := fb.Local().Stats()
		details["local_entries"] = fb.Local().Len()
		details["local_hits"] = hits
		details["local_misses"] = misses
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// Ensure CacheProbe implements Probe
var _ health.Probe = (*CacheProbe)(nil)
