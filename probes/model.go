package probes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// ModelProbeConfig configures the AI model backend probe.
type ModelProbeConfig struct {
	// Endpoint is the base URL of the model backend, typically its
	// models or health route. Required.
	Endpoint string

	// APIKey is the bearer credential for the backend. A missing key is
	// a hard failure: the service cannot reach the model at all.
	APIKey string

	// Client is the HTTP client to use.
	// Default: http.DefaultClient.
	Client *http.Client
}

// ModelProbe checks that the configured AI model backend is reachable
// and accepts our credential.
type ModelProbe struct {
	config ModelProbeConfig
}

// NewModelProbe creates a model backend probe.
func NewModelProbe(config ModelProbeConfig) *ModelProbe {
	if config.Client == nil {
		config.Client = http.DefaultClient
	}
	return &ModelProbe{config: config}
}

// Name returns the component name this probe covers.
func (p *ModelProbe) Name() string {
	return "ai_model"
}

// Check performs the reachability check. The credential being rejected
// or absent is unhealthy; the backend throttling us is degraded, since
// requests still reach it.
func (p *ModelProbe) Check(ctx context.Context) (health.Result, error) {
	if p.config.Endpoint == "" {
		return health.Unhealthy(p.Name(), "model endpoint not configured", nil), nil
	}
	if p.config.APIKey == "" {
		return health.Unhealthy(p.Name(), "model credential missing", nil), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.Endpoint, nil)
	if err != nil {
		return health.Result{}, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	start := time.Now()
	resp, err := p.config.Client.Do(req)
	if err != nil {
		// Transport failure; let the engine apply its retry policy.
		return health.Result{}, err
	}
	defer resp.Body.Close()

	details := map[string]any{
		"endpoint":    p.config.Endpoint,
		"status_code": resp.StatusCode,
		"latency_ms":  time.Since(start).Milliseconds(),
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return health.Healthy(p.Name(), "model backend reachable").WithDetails(details), nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return health.Unhealthy(p.Name(), "model credential rejected", nil).WithDetails(details), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return health.Degraded(p.Name(), "model backend throttling requests").WithDetails(details), nil
	default:
		return health.Unhealthy(p.Name(),
			fmt.Sprintf("model backend returned %d", resp.StatusCode), nil).WithDetails(details), nil
	}
}

// Ensure ModelProbe implements Probe
var _ health.Probe = (*ModelProbe)(nil)
