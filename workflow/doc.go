// Package workflow runs named steps over a directed graph with typed state.
//
// A graph is built from steps, unconditional edges and conditional branches,
// then compiled into an Engine. The type parameter S is the state record and
// U is the update a step returns. The engine owns the state for the duration
// of a run: each step receives a value snapshot, and the returned update is
// applied by the graph's Reducer before the next edge is taken.
//
// # Building a Graph
//
//	type Counter struct{ N int }
//
//	reduce := func(s *Counter, delta int) { s.N += delta }
//
//	inc := workflow.NewFuncStep("inc", func(ctx context.Context, s Counter) (int, error) {
//	    return 1, nil
//	})
//
//	engine, err := workflow.NewGraph("count", reduce).
//	    AddStep(inc).
//	    SetStart("inc").
//	    AddBranch("inc", func(s Counter) workflow.Decision {
//	        if s.N >= 3 {
//	            return workflow.Stop
//	        }
//	        return workflow.Continue
//	    }, "inc", workflow.End).
//	    Compile()
//
// Compile rejects graphs that cannot run: a missing start, unknown targets,
// a step without an outgoing edge, a step with two, or no path to End.
//
// # Running
//
//	result, err := engine.Run(ctx, Counter{})
//	fmt.Println(result.State.N, result.Visits["inc"]) // 3 3
//
// Branch functions are called exactly once per visit and must only read the
// state. A graph with a cycle terminates only if its branch eventually
// returns the exit decision; the engine adds no iteration cap of its own.
//
// A step error aborts the run. The error is a *StepError naming the step and
// Result.Termination tells completion, timeout, cancellation and failure apart.
//
// # Streaming
//
// RunStream performs the same walk and reports progress as events:
//
//	for ev := range engine.RunStream(ctx, Counter{}) {
//	    switch ev.Type {
//	    case event.StepEnd:
//	        fmt.Println(ev.StepName, ev.Duration)
//	    case event.RunError:
//	        return ev.Error
//	    }
//	}
//
// The first event is RunStart, the last is RunEnd or RunError, and the
// channel is closed afterwards.
package workflow
