// Package event defines the events emitted while a workflow runs. The event
// types are designed for 1:1 mapping with the AG-UI protocol.
package event

import (
	"context"
	"time"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a workflow run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a run reaches the end node.
	RunEnd Type = "run_end"

	// RunError fires when a run aborts.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires before a step executes.
	StepStart Type = "step_start"

	// StepEnd fires after a step's update has been applied.
	StepEnd Type = "step_end"

	// StateSnapshot carries a copy of the state after a step.
	StateSnapshot Type = "state_snapshot"

	// RouteSelected fires when a conditional branch picks its target.
	RouteSelected Type = "route_selected"
)

// Message lifecycle events
const (
	// MessageStart fires when an answer message begins.
	MessageStart Type = "message_start"

	// MessageDelta carries message content.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an answer message is complete.
	MessageEnd Type = "message_end"
)

// Event represents an observable occurrence during a run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID identifies the run that produced the event.
	RunID string

	// StepName identifies the step (or, for RunStart/RunEnd, the workflow).
	StepName string

	// RouteName is the chosen target for RouteSelected events.
	RouteName string

	// Decision is the branch outcome for RouteSelected events ("continue" or "stop").
	Decision string

	// Visit is how many times StepName has run in this run, including this one.
	Visit int

	// MessageID identifies the message for Start/Delta/End correlation.
	MessageID string

	// Delta contains content for MessageDelta events.
	Delta string

	// State is a snapshot of the workflow state for StateSnapshot and RunEnd events.
	State any

	// Duration is the step execution time for StepEnd events.
	Duration time.Duration

	// Error contains the error for RunError events.
	Error error

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit stamps e and sends it on ch. It blocks until the event is delivered
// or ctx is done, and reports whether the event was delivered. Buffered
// space is always used first, so a cancelled run can still report its error.
func Emit(ctx context.Context, ch chan<- Event, e Event) bool {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
		return true
	default:
	}
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
