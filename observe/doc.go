// Package observe provides the telemetry stack for the health engine:
// structured logging, OpenTelemetry metrics, and tracing.
//
// The Observer bundles a tracer, meter, and logger behind one setup and
// shutdown path:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "healthops",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer obs.Shutdown(ctx)
//
// CheckMetrics wraps the meter with the instruments the health engine
// records per component check. All primitives have no-op variants so
// telemetry is always optional.
package observe
