package workflow

import (
	"github.com/spetersoncode/delve/event"
)

// Event is an alias to the unified event type.
// Workflow runs emit these event.Type values:
//   - event.RunStart, event.RunEnd, event.RunError
//   - event.StepStart, event.StepEnd, event.StateSnapshot
//   - event.RouteSelected
type Event = event.Event

// TerminationReason indicates why the workflow stopped.
type TerminationReason string

const (
	// TerminationComplete indicates the run reached End.
	TerminationComplete TerminationReason = "complete"

	// TerminationTimeout indicates the deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationError indicates a step failed.
	TerminationError TerminationReason = "error"
)

// Result represents the final outcome of a run.
type Result[S any] struct {
	// RunID identifies the run.
	RunID string

	// WorkflowName identifies the workflow.
	WorkflowName string

	// State contains the state after the last applied update.
	State *S

	// Visits counts executions per step name.
	Visits map[string]int

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// Error contains any error that caused termination.
	Error error
}
