package workflow

import "context"

// Step represents a single named unit of work in a graph.
//
// A step receives a snapshot of the current state and returns an update
// describing the fields it wants to overwrite. The engine applies the update
// with the graph's reducer; steps never mutate shared state directly.
type Step[S, U any] interface {
	// Name returns a unique identifier for the step.
	Name() string

	// Run executes the step against a snapshot of the state.
	Run(ctx context.Context, state S) (U, error)
}

// StepFunc is a function signature for simple step implementations.
type StepFunc[S, U any] func(ctx context.Context, state S) (U, error)

// FuncStep wraps a function as a Step.
type FuncStep[S, U any] struct {
	name string
	fn   StepFunc[S, U]
}

// NewFuncStep creates a step from a function.
func NewFuncStep[S, U any](name string, fn StepFunc[S, U]) *FuncStep[S, U] {
	return &FuncStep[S, U]{name: name, fn: fn}
}

// Name returns the step name.
func (f *FuncStep[S, U]) Name() string { return f.name }

// Run executes the function.
func (f *FuncStep[S, U]) Run(ctx context.Context, state S) (U, error) {
	return f.fn(ctx, state)
}

// Reducer applies a step's update to the state in place.
type Reducer[S, U any] func(state *S, update U)

// StepResult describes one completed step execution.
type StepResult struct {
	// StepName identifies the step.
	StepName string

	// Visit is the 1-indexed execution count of this step within the run.
	Visit int
}
