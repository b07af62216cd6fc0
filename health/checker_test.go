package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func newTestChecker(t *testing.T, reg *Registry, cfg Config) *Checker {
	t.Helper()
	checker, err := New(reg, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return checker
}

func TestNew_InvalidConfig(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("database", healthyProbe("database")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		config Config
	}{
		{"zero timeout", Config{Timeout: 0}},
		{"negative timeout", Config{Timeout: -time.Second}},
		{"negative retry count", Config{Timeout: time.Second, RetryCount: -1}},
		{"negative retry delay", Config{Timeout: time.Second, RetryDelay: -time.Millisecond}},
		{"zero component override", Config{
			Timeout:           time.Second,
			ComponentTimeouts: map[string]time.Duration{"database": 0},
		}},
		{"unknown enabled component", Config{
			Timeout:           time.Second,
			EnabledComponents: []string{"database", "ghost"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(reg, tt.config)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNew_NilRegistry(t *testing.T) {
	_, err := New(nil, Config{Timeout: time.Second})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestChecker_CheckAllEmpty(t *testing.T) {
	checker := newTestChecker(t, NewRegistry(), Config{Timeout: time.Second})

	system := checker.CheckAll(context.Background())

	if system.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy (vacuous success)", system.Status)
	}
	if len(system.Components) != 0 {
		t.Errorf("Components = %d, want 0", len(system.Components))
	}
	if system.CheckedAt.IsZero() {
		t.Error("CheckedAt should not be zero")
	}
}

func TestChecker_CheckAllRegistrationOrder(t *testing.T) {
	reg := NewRegistry()

	// Later registrations complete sooner; the output order must still
	// be registration order.
	delays := map[string]time.Duration{
		"ai_model": 60 * time.Millisecond,
		"cache":    40 * time.Millisecond,
		"database": 20 * time.Millisecond,
		"runtime":  0,
	}
	order := []string{"ai_model", "cache", "database", "runtime"}
	for _, name := range order {
		delay := delays[name]
		err := reg.Register(name, NewProbeFunc(name, func(ctx context.Context) (Result, error) {
			time.Sleep(delay)
			return Healthy(name, "ok"), nil
		}))
		if err != nil {
			t.Fatal(err)
		}
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second})
	system := checker.CheckAll(context.Background())

	if len(system.Components) != len(order) {
		t.Fatalf("got %d components, want %d", len(system.Components), len(order))
	}
	for i, name := range order {
		if system.Components[i].Component != name {
			t.Errorf("Components[%d] = %v, want %v", i, system.Components[i].Component, name)
		}
	}
}

func TestChecker_CheckAllAggregation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("ai_model", healthyProbe("ai_model")); err != nil {
		t.Fatal(err)
	}
	err := reg.Register("cache", NewProbeFunc("cache", func(ctx context.Context) (Result, error) {
		return Degraded("cache", "fallback active"), nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second})
	system := checker.CheckAll(context.Background())

	if system.Status != StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded", system.Status)
	}
	if len(system.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(system.Components))
	}
	if system.Components[0].Component != "ai_model" || system.Components[1].Component != "cache" {
		t.Errorf("component order = [%s %s], want [ai_model cache]",
			system.Components[0].Component, system.Components[1].Component)
	}
}

func TestChecker_Timeout(t *testing.T) {
	reg := NewRegistry()
	hang := make(chan struct{})
	t.Cleanup(func() { close(hang) })
	err := reg.Register("database", NewProbeFunc("database", func(ctx context.Context) (Result, error) {
		<-hang // hangs past every timeout
		return Healthy("database", "too late"), nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	timeout := 100 * time.Millisecond
	checker := newTestChecker(t, reg, Config{Timeout: timeout, RetryCount: 1})

	start := time.Now()
	result, err := checker.CheckComponent(context.Background(), "database")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if !errors.Is(result.Err, ErrProbeTimeout) {
		t.Errorf("Err = %v, want ErrProbeTimeout", result.Err)
	}
	if result.Duration != timeout {
		t.Errorf("Duration = %v, want timeout value %v", result.Duration, timeout)
	}
	// Two timed-out attempts back to back.
	if elapsed < 2*timeout || elapsed > 2*timeout+150*time.Millisecond {
		t.Errorf("elapsed = %v, want about %v", elapsed, 2*timeout)
	}
}

func TestChecker_RetryOnFailure(t *testing.T) {
	reg := NewRegistry()
	var attempts atomic.Int32
	probeErr := errors.New("connection reset")
	err := reg.Register("resilience", NewProbeFunc("resilience", func(ctx context.Context) (Result, error) {
		if attempts.Add(1) == 1 {
			return Result{}, probeErr
		}
		return Healthy("resilience", "recovered"), nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second, RetryCount: 1})
	result, err := checker.CheckComponent(context.Background(), "resilience")
	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}

	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy from the retried attempt", result.Status)
	}
	if result.Message != "recovered" {
		t.Errorf("Message = %v, want 'recovered'", result.Message)
	}
}

func TestChecker_RetryExhaustion(t *testing.T) {
	reg := NewRegistry()
	var attempts atomic.Int32
	probeErr := errors.New("connection refused")
	err := reg.Register("database", NewProbeFunc("database", func(ctx context.Context) (Result, error) {
		attempts.Add(1)
		return Result{}, probeErr
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second, RetryCount: 2})
	result, err := checker.CheckComponent(context.Background(), "database")
	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}

	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3 (retry_count + 1)", got)
	}
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if !errors.Is(result.Err, probeErr) {
		t.Errorf("Err = %v, want the final probe failure", result.Err)
	}
}

func TestChecker_ErrorExhaustionDuration(t *testing.T) {
	reg := NewRegistry()
	delay := 30 * time.Millisecond
	err := reg.Register("database", NewProbeFunc("database", func(ctx context.Context) (Result, error) {
		time.Sleep(delay)
		return Result{}, errors.New("connection refused")
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second})
	result, err := checker.CheckComponent(context.Background(), "database")
	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}

	// A failed check still took real time; the result must carry it.
	if result.Duration < delay {
		t.Errorf("Duration = %v, want at least %v of measured elapsed time", result.Duration, delay)
	}
}

func TestChecker_PanicExhaustionDuration(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("ai_model", NewProbeFunc("ai_model", func(ctx context.Context) (Result, error) {
		time.Sleep(5 * time.Millisecond)
		panic("probe bug")
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second, RetryCount: 1})
	result, err := checker.CheckComponent(context.Background(), "ai_model")
	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}

	if !errors.Is(result.Err, ErrProbePanic) {
		t.Fatalf("Err = %v, want ErrProbePanic", result.Err)
	}
	if result.Duration <= 0 {
		t.Errorf("Duration = %v, want measured elapsed time", result.Duration)
	}
}

func TestChecker_NoRetryOnSelfReportedStatus(t *testing.T) {
	reg := NewRegistry()
	var attempts atomic.Int32
	err := reg.Register("cache", NewProbeFunc("cache", func(ctx context.Context) (Result, error) {
		attempts.Add(1)
		return Degraded("cache", "fallback active"), nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second, RetryCount: 3})
	result, err := checker.CheckComponent(context.Background(), "cache")
	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}

	// A probe may legitimately and deterministically report degradation;
	// only transport failures consume retries.
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded accepted as-is", result.Status)
	}
}

func TestChecker_PanicIsolation(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("ai_model", NewProbeFunc("ai_model", func(ctx context.Context) (Result, error) {
		panic("probe bug")
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("database", healthyProbe("database")); err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second})
	system := checker.CheckAll(context.Background())

	if system.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", system.Status)
	}
	if !errors.Is(system.Components[0].Err, ErrProbePanic) {
		t.Errorf("Err = %v, want ErrProbePanic", system.Components[0].Err)
	}
	// The broken probe must not take down its neighbors.
	if system.Components[1].Status != StatusHealthy {
		t.Errorf("database status = %v, want StatusHealthy", system.Components[1].Status)
	}
}

func TestChecker_EnabledComponents(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"ai_model", "cache", "database"} {
		if err := reg.Register(name, healthyProbe(name)); err != nil {
			t.Fatal(err)
		}
	}

	checker := newTestChecker(t, reg, Config{
		Timeout:           time.Second,
		EnabledComponents: []string{"database", "ai_model"},
	})
	system := checker.CheckAll(context.Background())

	if len(system.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(system.Components))
	}
	// Selection is restricted, but output stays in registration order.
	if system.Components[0].Component != "ai_model" || system.Components[1].Component != "database" {
		t.Errorf("components = [%s %s], want [ai_model database]",
			system.Components[0].Component, system.Components[1].Component)
	}
}

func TestChecker_ComponentTimeoutOverride(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("database", NewProbeFunc("database", func(ctx context.Context) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}))
	if err != nil {
		t.Fatal(err)
	}

	override := 50 * time.Millisecond
	checker := newTestChecker(t, reg, Config{
		Timeout:           10 * time.Second,
		ComponentTimeouts: map[string]time.Duration{"database": override},
	})

	start := time.Now()
	result, err := checker.CheckComponent(context.Background(), "database")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}
	if result.Duration != override {
		t.Errorf("Duration = %v, want override %v", result.Duration, override)
	}
	if elapsed > time.Second {
		t.Errorf("elapsed = %v, the global timeout was applied instead of the override", elapsed)
	}
}

func TestChecker_CheckComponentUnknown(t *testing.T) {
	checker := newTestChecker(t, NewRegistry(), Config{Timeout: time.Second})

	_, err := checker.CheckComponent(context.Background(), "ghost")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("CheckComponent() error = %v, want ErrUnknownComponent", err)
	}
}

func TestChecker_MaxConcurrent(t *testing.T) {
	reg := NewRegistry()
	var running, peak atomic.Int32
	for _, name := range []string{"a", "b", "c", "d"} {
		err := reg.Register(name, NewProbeFunc(name, func(ctx context.Context) (Result, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return Healthy(name, "ok"), nil
		}))
		if err != nil {
			t.Fatal(err)
		}
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second, MaxConcurrent: 2})
	system := checker.CheckAll(context.Background())

	if len(system.Components) != 4 {
		t.Fatalf("got %d components, want 4", len(system.Components))
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestChecker_FillsComponentName(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("cache", NewProbeFunc("cache", func(ctx context.Context) (Result, error) {
		// Probe forgets to set the component name.
		return Result{Status: StatusHealthy, Message: "ok"}, nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	checker := newTestChecker(t, reg, Config{Timeout: time.Second})
	result, err := checker.CheckComponent(context.Background(), "cache")
	if err != nil {
		t.Fatalf("CheckComponent() error = %v", err)
	}
	if result.Component != "cache" {
		t.Errorf("Component = %q, want 'cache'", result.Component)
	}
	if result.Timestamp.IsZero() {
		t.Error("Timestamp should be filled in")
	}
}

func TestChecker_OverlappingInvocations(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("database", healthyProbe("database")); err != nil {
		t.Fatal(err)
	}
	checker := newTestChecker(t, reg, Config{Timeout: time.Second})

	done := make(chan SystemHealth, 8)
	for range 8 {
		go func() {
			done <- checker.CheckAll(context.Background())
		}()
	}
	for range 8 {
		system := <-done
		if system.Status != StatusHealthy || len(system.Components) != 1 {
			t.Errorf("concurrent CheckAll returned %v with %d components",
				system.Status, len(system.Components))
		}
	}
}
