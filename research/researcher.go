package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/event"
	"github.com/spetersoncode/delve/internal/metrics"
	"github.com/spetersoncode/delve/workflow"
)

// WorkflowName names the research graph in results and logs.
const WorkflowName = "research"

// FallbackMessage is the answer given when a run finishes without one.
const FallbackMessage = "The model does not have enough information to answer your question. Try asking a different question."

// Run outcomes recorded in metrics.
const (
	OutcomeAnswered  = "answered"
	OutcomeFallback  = "fallback"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomeTimeout   = "timeout"
)

// Researcher answers questions by running the research graph:
//
//	generate_queries -> research -> reflect -> finalize -> end
//	                       ^           |
//	                       +-----------+  (until sufficient or round cap)
//
// A Researcher is safe for concurrent use. Each run gets its own State.
type Researcher struct {
	engine *workflow.Engine[State, Update]
	opts   *Options
	log    *slog.Logger
}

// New builds and compiles the research graph around a gateway.
func New(gateway delve.Gateway, opts ...Option) (*Researcher, error) {
	if gateway == nil {
		return nil, fmt.Errorf("%w: gateway is required", ErrInvalidConfig)
	}
	o := ApplyOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}

	log := o.Logger.With("component", "research")
	s := &steps{gateway: gateway, opts: o, log: log}
	maxRounds := o.MaxRounds

	engineOpts := append([]workflow.Option{workflow.WithLogger(o.Logger)}, o.EngineOptions...)
	engine, err := workflow.NewGraph(WorkflowName, Reduce).
		AddStep(timed(StepGenerateQueries, s.generateQueries)).
		AddStep(timed(StepResearch, s.research)).
		AddStep(timed(StepReflect, s.reflect)).
		AddStep(timed(StepFinalize, s.finalize)).
		SetStart(StepGenerateQueries).
		AddEdge(StepGenerateQueries, StepResearch).
		AddEdge(StepResearch, StepReflect).
		AddBranch(StepReflect, func(state State) workflow.Decision {
			return ShouldContinue(state, maxRounds)
		}, StepResearch, StepFinalize).
		AddEdge(StepFinalize, workflow.End).
		Compile(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("compile research graph: %w", err)
	}

	return &Researcher{engine: engine, opts: o, log: log}, nil
}

func timed(name string, fn workflow.StepFunc[State, Update]) workflow.Step[State, Update] {
	return timedStep{Step: workflow.NewFuncStep(name, fn)}
}

// MaxRounds returns the configured round cap.
func (r *Researcher) MaxRounds() int { return r.opts.MaxRounds }

// Run executes one research run for query and returns the engine result.
// A blank query returns delve.ErrEmptyQuery without running anything.
func (r *Researcher) Run(ctx context.Context, query string, opts ...workflow.Option) (*workflow.Result[State], error) {
	if strings.TrimSpace(query) == "" {
		return nil, delve.ErrEmptyQuery
	}

	start := time.Now()
	result, err := r.engine.Run(ctx, NewState(query), opts...)

	outcome := outcomeOf(result.Termination, *result.State)
	r.record(result.RunID, outcome, *result.State, time.Since(start), err)
	return result, err
}

// Answer runs the research graph and returns the synthesized answer, or
// FallbackMessage when the run completed without one. Extraction and gateway
// failures are returned as errors; no partial answer is ever produced.
func (r *Researcher) Answer(ctx context.Context, query string) (string, error) {
	result, err := r.Run(ctx, query)
	if err != nil {
		return "", err
	}
	return AnswerOf(*result.State), nil
}

// AnswerOf returns the final answer held by state, or FallbackMessage.
func AnswerOf(state State) string {
	if strings.TrimSpace(state.FinalAnswer) == "" {
		return FallbackMessage
	}
	return state.FinalAnswer
}

// AnswerStream runs the research graph and streams its events. On success the
// answer is delivered as MessageStart, MessageDelta and MessageEnd events just
// before RunEnd. The channel is closed when the run is over.
func (r *Researcher) AnswerStream(ctx context.Context, query string, opts ...workflow.Option) <-chan event.Event {
	out := event.NewChannel()

	go func() {
		defer close(out)

		if strings.TrimSpace(query) == "" {
			event.Emit(ctx, out, event.Event{Type: event.RunError, StepName: WorkflowName, Error: delve.ErrEmptyQuery})
			return
		}

		start := time.Now()
		var last State
		for ev := range r.engine.RunStream(ctx, NewState(query), opts...) {
			switch ev.Type {
			case event.StateSnapshot:
				if s, ok := ev.State.(State); ok {
					last = s
				}

			case event.RunEnd:
				if s, ok := ev.State.(State); ok {
					last = s
				}
				r.emitAnswer(ctx, out, ev.RunID, AnswerOf(last))
				r.record(ev.RunID, outcomeOf(workflow.TerminationComplete, last), last, time.Since(start), nil)

			case event.RunError:
				r.record(ev.RunID, outcomeOfError(ev.Error), last, time.Since(start), ev.Error)
			}
			event.Emit(ctx, out, ev)
		}
	}()

	return out
}

func (r *Researcher) emitAnswer(ctx context.Context, out chan<- event.Event, runID, answer string) {
	id := uuid.NewString()
	event.Emit(ctx, out, event.Event{Type: event.MessageStart, RunID: runID, MessageID: id})
	event.Emit(ctx, out, event.Event{Type: event.MessageDelta, RunID: runID, MessageID: id, Delta: answer})
	event.Emit(ctx, out, event.Event{Type: event.MessageEnd, RunID: runID, MessageID: id})
}

func (r *Researcher) record(runID, outcome string, state State, elapsed time.Duration, err error) {
	metrics.RecordResearchRun(outcome, state.ResearchRoundCount)

	log := r.log.With("run_id", runID, "outcome", outcome, "rounds", state.ResearchRoundCount,
		"duration_ms", elapsed.Milliseconds())
	if err != nil {
		log.Warn("research run failed", "error", err)
		return
	}
	log.Info("research run complete")
}

func outcomeOf(t workflow.TerminationReason, state State) string {
	switch t {
	case workflow.TerminationComplete:
		if strings.TrimSpace(state.FinalAnswer) == "" {
			return OutcomeFallback
		}
		return OutcomeAnswered
	case workflow.TerminationCancelled:
		return OutcomeCancelled
	case workflow.TerminationTimeout:
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

func outcomeOfError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}
