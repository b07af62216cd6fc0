package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// StatusHandler returns an HTTP handler exposing the simple external
// contract: any non-healthy overall status collapses to a single
// "degraded" indicator. Callers that need per-component detail should
// use DetailedHandler instead.
func StatusHandler(checker *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := checker.CheckAll(r.Context())

		w.Header().Set("Content-Type", "text/plain")
		if health.Status == StatusHealthy {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("DEGRADED"))
	}
}

// SystemResponse is the JSON response for the detailed health endpoint.
type SystemResponse struct {
	Status     string              `json:"status"`
	CheckedAt  string              `json:"checked_at"`
	Components []ComponentResponse `json:"components,omitempty"`
}

// ComponentResponse is the JSON response for a single component.
type ComponentResponse struct {
	Component string         `json:"component"`
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  string         `json:"duration,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// DetailedHandler returns an HTTP handler that provides the full
// per-component health information, in registration order.
func DetailedHandler(checker *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := checker.CheckAll(r.Context())

		response := SystemResponse{
			Status:     health.Status.String(),
			CheckedAt:  health.CheckedAt.UTC().Format(time.RFC3339),
			Components: make([]ComponentResponse, 0, len(health.Components)),
		}
		for _, result := range health.Components {
			response.Components = append(response.Components, componentResponse(result))
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ComponentHandler returns an HTTP handler for checking a single component.
func ComponentHandler(checker *Checker, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checker.Config().Timeout*time.Duration(checker.Config().RetryCount+1)+time.Second)
		defer cancel()

		result, err := checker.CheckComponent(ctx, name)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if result.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(componentResponse(result))
	}
}

// RegisterHandlers registers the standard health endpoints on mux.
func RegisterHandlers(mux *http.ServeMux, checker *Checker) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", StatusHandler(checker))
	mux.HandleFunc("/health", DetailedHandler(checker))
}

func componentResponse(result Result) ComponentResponse {
	response := ComponentResponse{
		Component: result.Component,
		Status:    result.Status.String(),
		Message:   result.Message,
		Duration:  result.Duration.String(),
		Details:   result.Details,
	}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}
	return response
}
