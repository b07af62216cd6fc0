package cache

import (
	"context"
	"sync"
	"time"
)

// Fallback layers an in-process cache behind a primary backend. While
// the primary is reachable all operations go to it; when a write or
// ping fails, the fallback trips into local mode and the service keeps
// running in reduced form. A later successful Ping restores the primary.
//
// Health probes use UsingFallback to distinguish "cache degraded but
// serving" from "cache down".
type Fallback struct {
	primary Cache
	local   *Memory

	mu          sync.RWMutex
	usingLocal  bool
	lastErr     error
	lastTripped time.Time
}

// NewFallback wraps primary with an in-process fallback tier.
func NewFallback(primary Cache) *Fallback {
	return &Fallback{
		primary: primary,
		local:   NewMemory(),
	}
}

// Get retrieves a cached value from the active tier.
func (f *Fallback) Get(ctx context.Context, key string) ([]byte, bool) {
	if f.UsingFallback() {
		return f.local.Get(ctx, key)
	}
	if value, ok := f.primary.Get(ctx, key); ok {
		return value, ok
	}
	// The primary cannot signal errors on Get, so a miss is also
	// checked against the local tier in case writes failed over.
	return f.local.Get(ctx, key)
}

// Set stores a value in the active tier. A primary write failure trips
// the fallback and the value lands in the local tier instead. An
// invalid key is a caller mistake, not a backend failure, and never
// trips.
func (f *Fallback) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !f.UsingFallback() {
		err := f.primary.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		f.trip(err)
	}
	return f.local.Set(ctx, key, value, ttl)
}

// Delete removes a value from both tiers.
func (f *Fallback) Delete(ctx context.Context, key string) error {
	_ = f.local.Delete(ctx, key)
	if f.UsingFallback() {
		return nil
	}
	if err := f.primary.Delete(ctx, key); err != nil {
		f.trip(err)
		return err
	}
	return nil
}

// Ping probes the primary backend. A failure trips the fallback; a
// success restores the primary tier. Primaries that cannot be pinged
// are assumed reachable.
func (f *Fallback) Ping(ctx context.Context) error {
	pinger, ok := f.primary.(Pinger)
	if !ok {
		return nil
	}
	if err := pinger.Ping(ctx); err != nil {
		f.trip(err)
		return err
	}
	f.restore()
	return nil
}

// UsingFallback reports whether the local tier is serving traffic.
func (f *Fallback) UsingFallback() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.usingLocal
}

// LastError returns the primary failure that tripped the fallback, if any.
func (f *Fallback) LastError() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastErr
}

// Local exposes the in-process tier, mainly for diagnostic metadata.
func (f *Fallback) Local() *Memory {
	return f.local
}

func (f *Fallback) trip(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usingLocal = true
	f.lastErr = err
	f.lastTripped = time.Now()
}

func (f *Fallback) restore() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usingLocal = false
	f.lastErr = nil
}

// Ensure Fallback implements Cache and Pinger
var (
	_ Cache  = (*Fallback)(nil)
	_ Pinger = (*Fallback)(nil)
)
