package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and run orchestration.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownPreset indicates a preset name with no registered configuration.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownShape indicates a scene or config names an unsupported shape or collider kind.
	ErrUnknownShape = errors.New("dynamo: unknown shape")

	// ErrContextCanceled indicates the run was interrupted between frames.
	ErrContextCanceled = errors.New("dynamo: run canceled by context")
)

// SimulationError wraps an error with the frame it occurred on.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
