package workflow

// Decision is the outcome of a conditional branch.
type Decision int

const (
	// Continue takes the branch's continue target.
	Continue Decision = iota

	// Stop takes the branch's stop target.
	Stop
)

// String returns "continue" or "stop".
func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// BranchFunc decides which way a conditional branch goes.
// It must only read state and must not have side effects; the engine calls
// it exactly once per visit to the branching step.
type BranchFunc[S any] func(state S) Decision

type branch[S any] struct {
	decide     BranchFunc[S]
	onContinue string
	onStop     string
}

func (b branch[S]) target(d Decision) string {
	if d == Stop {
		return b.onStop
	}
	return b.onContinue
}
