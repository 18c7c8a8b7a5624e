package workflow

import (
	"errors"
	"fmt"
)

// End is the name of the implicit terminal node.
const End = "__end__"

// Graph is a builder for a directed graph of named steps sharing state S.
// Steps return updates of type U, applied to the state by the reducer.
//
// Each step has exactly one way out: an unconditional edge or a conditional
// branch. Builder methods record the first error and Compile reports it.
//
//	g := workflow.NewGraph("pipeline", reduce).
//	    AddStep(fetch).
//	    AddStep(check).
//	    SetStart("fetch").
//	    AddEdge("fetch", "check").
//	    AddBranch("check", decide, "fetch", workflow.End)
//
//	engine, err := g.Compile()
type Graph[S, U any] struct {
	name     string
	reducer  Reducer[S, U]
	steps    map[string]Step[S, U]
	order    []string
	start    string
	edges    map[string]string
	branches map[string]branch[S]
	errs     []error
}

// NewGraph creates an empty graph.
func NewGraph[S, U any](name string, reducer Reducer[S, U]) *Graph[S, U] {
	return &Graph[S, U]{
		name:     name,
		reducer:  reducer,
		steps:    make(map[string]Step[S, U]),
		edges:    make(map[string]string),
		branches: make(map[string]branch[S]),
	}
}

// Name returns the graph name.
func (g *Graph[S, U]) Name() string { return g.name }

// AddStep registers a step under its name.
func (g *Graph[S, U]) AddStep(step Step[S, U]) *Graph[S, U] {
	name := step.Name()
	switch {
	case name == "" || name == End:
		g.errs = append(g.errs, fmt.Errorf("%w: %q", ErrInvalidStepName, name))
	case g.steps[name] != nil:
		g.errs = append(g.errs, fmt.Errorf("%w: %q", ErrDuplicateStep, name))
	default:
		g.steps[name] = step
		g.order = append(g.order, name)
	}
	return g
}

// SetStart sets the first step of every run.
func (g *Graph[S, U]) SetStart(name string) *Graph[S, U] {
	g.start = name
	return g
}

// AddEdge adds an unconditional edge. to may be End.
func (g *Graph[S, U]) AddEdge(from, to string) *Graph[S, U] {
	if g.hasOutgoing(from) {
		g.errs = append(g.errs, fmt.Errorf("%w: %q", ErrDuplicateEdge, from))
		return g
	}
	g.edges[from] = to
	return g
}

// AddBranch adds a conditional edge. After from runs, decide picks
// onContinue or onStop. Either target may be End.
func (g *Graph[S, U]) AddBranch(from string, decide BranchFunc[S], onContinue, onStop string) *Graph[S, U] {
	if g.hasOutgoing(from) {
		g.errs = append(g.errs, fmt.Errorf("%w: %q", ErrDuplicateEdge, from))
		return g
	}
	g.branches[from] = branch[S]{decide: decide, onContinue: onContinue, onStop: onStop}
	return g
}

func (g *Graph[S, U]) hasOutgoing(from string) bool {
	_, hasEdge := g.edges[from]
	_, hasBranch := g.branches[from]
	return hasEdge || hasBranch
}

// Compile validates the graph and returns an engine that can run it.
// Options given here become defaults for every run.
func (g *Graph[S, U]) Compile(opts ...Option) (*Engine[S, U], error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	e := &Engine[S, U]{
		name:     g.name,
		reducer:  g.reducer,
		start:    g.start,
		steps:    make(map[string]Step[S, U], len(g.steps)),
		edges:    make(map[string]string, len(g.edges)),
		branches: make(map[string]branch[S], len(g.branches)),
		defaults: opts,
	}
	for k, v := range g.steps {
		e.steps[k] = v
	}
	for k, v := range g.edges {
		e.edges[k] = v
	}
	for k, v := range g.branches {
		e.branches[k] = v
	}
	return e, nil
}

func (g *Graph[S, U]) validate() error {
	if len(g.errs) > 0 {
		return errors.Join(g.errs...)
	}
	if g.reducer == nil {
		return ErrNilReducer
	}
	if g.start == "" {
		return ErrNoStart
	}
	if g.steps[g.start] == nil {
		return fmt.Errorf("%w: start %q", ErrStepNotFound, g.start)
	}

	known := func(name string) bool {
		return name == End || g.steps[name] != nil
	}

	for from, to := range g.edges {
		if g.steps[from] == nil {
			return fmt.Errorf("%w: edge source %q", ErrStepNotFound, from)
		}
		if !known(to) {
			return fmt.Errorf("%w: edge target %q", ErrStepNotFound, to)
		}
	}
	for from, b := range g.branches {
		if g.steps[from] == nil {
			return fmt.Errorf("%w: branch source %q", ErrStepNotFound, from)
		}
		if b.decide == nil {
			return fmt.Errorf("workflow: branch from %q has no decision function", from)
		}
		for _, to := range []string{b.onContinue, b.onStop} {
			if !known(to) {
				return fmt.Errorf("%w: branch target %q", ErrStepNotFound, to)
			}
		}
	}
	for _, name := range g.order {
		if !g.hasOutgoing(name) {
			return fmt.Errorf("%w: %q", ErrMissingEdge, name)
		}
	}

	if !g.reachesEnd() {
		return ErrEndUnreachable
	}
	return nil
}

// reachesEnd reports whether End can be reached from the start step.
func (g *Graph[S, U]) reachesEnd() bool {
	seen := map[string]bool{g.start: true}
	queue := []string{g.start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var next []string
		if to, ok := g.edges[cur]; ok {
			next = append(next, to)
		}
		if b, ok := g.branches[cur]; ok {
			next = append(next, b.onContinue, b.onStop)
		}
		for _, n := range next {
			if n == End {
				return true
			}
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
