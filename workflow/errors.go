package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrStepNotFound indicates a referenced step does not exist.
	ErrStepNotFound = errors.New("workflow: step not found")

	// ErrDuplicateStep indicates two steps share a name.
	ErrDuplicateStep = errors.New("workflow: duplicate step")

	// ErrInvalidStepName indicates an empty or reserved step name.
	ErrInvalidStepName = errors.New("workflow: invalid step name")

	// ErrNoStart indicates the graph has no start step.
	ErrNoStart = errors.New("workflow: start step not set")

	// ErrMissingEdge indicates a step has no outgoing edge or branch.
	ErrMissingEdge = errors.New("workflow: step has no outgoing edge")

	// ErrDuplicateEdge indicates a step was given more than one outgoing edge or branch.
	ErrDuplicateEdge = errors.New("workflow: step already has an outgoing edge")

	// ErrEndUnreachable indicates no path leads from the start step to End.
	ErrEndUnreachable = errors.New("workflow: end is unreachable from start")

	// ErrNilReducer indicates the graph was built without a reducer.
	ErrNilReducer = errors.New("workflow: reducer is required")

	// ErrInvalidDecision indicates a branch function returned an unknown Decision.
	ErrInvalidDecision = errors.New("workflow: invalid branch decision")
)

// StepError wraps errors from step execution.
type StepError struct {
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: step %q failed: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
