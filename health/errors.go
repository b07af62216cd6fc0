package health

import "errors"

var (
	// ErrDuplicateComponent indicates a component name is already registered.
	ErrDuplicateComponent = errors.New("health: component already registered")

	// ErrUnknownComponent indicates a component name is not registered.
	ErrUnknownComponent = errors.New("health: unknown component")

	// ErrInvalidConfig indicates the engine configuration is invalid.
	ErrInvalidConfig = errors.New("health: invalid configuration")

	// ErrProbeTimeout indicates a probe attempt exceeded its timeout.
	ErrProbeTimeout = errors.New("health: probe timed out")

	// ErrProbePanic indicates a probe attempt panicked.
	ErrProbePanic = errors.New("health: probe panicked")
)
