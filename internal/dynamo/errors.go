package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for assembly and simulation operations.
var (
	// ErrInvalidAssembly indicates a part collection that cannot form a rigid
	// body: no parts, or a non-positive total mass.
	ErrInvalidAssembly = errors.New("dynamo: invalid assembly")

	// ErrInvalidTimestep indicates a non-positive integration step.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrInvalidPart indicates a part with impossible physical parameters.
	ErrInvalidPart = errors.New("dynamo: invalid part")

	// ErrUnknownPart indicates a catalog lookup that found nothing.
	ErrUnknownPart = errors.New("dynamo: unknown part")

	// ErrInvalidConfig indicates a run configuration that cannot be simulated.
	ErrInvalidConfig = errors.New("dynamo: invalid config")

	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
