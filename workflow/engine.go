package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/delve/event"
)

// Engine executes a compiled graph. It is immutable and safe to share
// between concurrent runs; each run works on its own copy of the state.
type Engine[S, U any] struct {
	name     string
	reducer  Reducer[S, U]
	start    string
	steps    map[string]Step[S, U]
	edges    map[string]string
	branches map[string]branch[S]
	defaults []Option
}

// Name returns the workflow name.
func (e *Engine[S, U]) Name() string { return e.name }

// Run walks the graph from the start step until End, one step at a time.
//
// The returned Result is never nil. On failure it carries the state as of the
// last applied update, and the error is a *StepError naming the failed step.
func (e *Engine[S, U]) Run(ctx context.Context, initial S, opts ...Option) (*Result[S], error) {
	state := initial
	return e.execute(ctx, &state, e.options(opts), nil)
}

// RunStream executes the run in a goroutine and returns its events.
// The channel is closed after the final RunEnd or RunError event.
func (e *Engine[S, U]) RunStream(ctx context.Context, initial S, opts ...Option) <-chan Event {
	ch := event.NewChannel()

	go func() {
		defer close(ch)
		state := initial
		e.execute(ctx, &state, e.options(opts), func(ev Event) {
			event.Emit(ctx, ch, ev)
		})
	}()

	return ch
}

func (e *Engine[S, U]) options(opts []Option) *Options {
	all := make([]Option, 0, len(e.defaults)+len(opts))
	all = append(all, e.defaults...)
	all = append(all, opts...)
	return ApplyOptions(all...)
}

func (e *Engine[S, U]) execute(ctx context.Context, state *S, o *Options, emit func(Event)) (*Result[S], error) {
	if emit == nil {
		emit = func(Event) {}
	}

	runID := o.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := o.Logger.With("workflow", e.name, "run_id", runID)

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	result := &Result[S]{
		RunID:        runID,
		WorkflowName: e.name,
		State:        state,
		Visits:       make(map[string]int),
	}

	emit(Event{Type: event.RunStart, RunID: runID, StepName: e.name})

	if err := e.walk(ctx, runID, state, result.Visits, o, log, emit); err != nil {
		result.Termination = termination(ctx, err)
		result.Error = err

		failed := e.name
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			failed = stepErr.StepName
		}
		log.Debug("run failed", "step", failed, "termination", result.Termination, "error", err)
		emit(Event{Type: event.RunError, RunID: runID, StepName: failed, Error: err})
		return result, err
	}

	result.Termination = TerminationComplete
	log.Debug("run complete", "visits", result.Visits)
	emit(Event{Type: event.RunEnd, RunID: runID, StepName: e.name, State: *state})
	return result, nil
}

func (e *Engine[S, U]) walk(
	ctx context.Context,
	runID string,
	state *S,
	visits map[string]int,
	o *Options,
	log *slog.Logger,
	emit func(Event),
) error {
	current := e.start
	for current != End {
		if err := ctx.Err(); err != nil {
			return &StepError{StepName: current, Err: err}
		}

		step := e.steps[current]
		visits[current]++
		visit := visits[current]

		emit(Event{Type: event.StepStart, RunID: runID, StepName: current, Visit: visit})
		log.Debug("step started", "step", current, "visit", visit)

		started := time.Now()
		update, err := runStep(ctx, step, *state, o.StepTimeout)
		elapsed := time.Since(started)
		if err != nil {
			return &StepError{StepName: current, Err: err}
		}

		e.reducer(state, update)

		result := StepResult{StepName: current, Visit: visit}
		if o.OnStepComplete != nil {
			o.OnStepComplete(ctx, result, elapsed)
		}
		emit(Event{Type: event.StepEnd, RunID: runID, StepName: current, Visit: visit, Duration: elapsed})
		emit(Event{Type: event.StateSnapshot, RunID: runID, StepName: current, Visit: visit, State: *state})

		next, err := e.next(current, *state, runID, emit)
		if err != nil {
			return &StepError{StepName: current, Err: err}
		}
		log.Debug("step completed", "step", current, "next", next, "elapsed", elapsed)
		current = next
	}
	return nil
}

// next resolves the single outgoing edge or branch of a step.
func (e *Engine[S, U]) next(current string, state S, runID string, emit func(Event)) (string, error) {
	if to, ok := e.edges[current]; ok {
		return to, nil
	}

	b := e.branches[current]
	d := b.decide(state)
	if d != Continue && d != Stop {
		return "", fmt.Errorf("%w: %d", ErrInvalidDecision, int(d))
	}
	to := b.target(d)
	emit(Event{
		Type:      event.RouteSelected,
		RunID:     runID,
		StepName:  current,
		RouteName: to,
		Decision:  d.String(),
	})
	return to, nil
}

func runStep[S, U any](ctx context.Context, step Step[S, U], state S, timeout time.Duration) (U, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return step.Run(ctx, state)
}

func termination(ctx context.Context, err error) TerminationReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return TerminationTimeout
	case errors.Is(err, context.Canceled):
		return TerminationCancelled
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return TerminationTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return TerminationCancelled
	default:
		return TerminationError
	}
}
