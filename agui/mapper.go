package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/delve/event"
)

// Role constants matching AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// RouteSelectedName is the name of the CUSTOM event emitted when a branch
// picks its target.
const RouteSelectedName = "route_selected"

// Route is the value of a RouteSelectedName custom event.
type Route struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Decision string `json:"decision"`
}

// Mapper converts delve events to AG-UI events. Each delve event maps to at
// most one AG-UI event.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use - each goroutine should have its own Mapper.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a new Mapper for a single run.
// The threadID and runID are used in lifecycle events (RUN_STARTED, RUN_FINISHED).
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// MapEvent converts a delve event to an AG-UI event.
// Returns nil for events that have no AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	// Run lifecycle
	case event.RunStart:
		return m.RunStarted()
	case event.RunEnd:
		return m.RunFinished()
	case event.RunError:
		return m.RunError(e.Error)

	// Step lifecycle
	case event.StepStart:
		return events.NewStepStartedEvent(e.StepName)
	case event.StepEnd:
		return events.NewStepFinishedEvent(e.StepName)
	case event.StateSnapshot:
		return events.NewStateSnapshotEvent(e.State)
	case event.RouteSelected:
		return events.NewCustomEvent(RouteSelectedName, events.WithValue(Route{
			From:     e.StepName,
			To:       e.RouteName,
			Decision: e.Decision,
		}))

	// Message lifecycle
	case event.MessageStart:
		return events.NewTextMessageStartEvent(
			e.MessageID,
			events.WithRole(RoleAssistant),
		)
	case event.MessageDelta:
		return events.NewTextMessageContentEvent(e.MessageID, e.Delta)
	case event.MessageEnd:
		return events.NewTextMessageEndEvent(e.MessageID)

	default:
		return nil
	}
}

// MapStream maps every event from in and closes the returned channel once
// in is closed. Events without an AG-UI equivalent are dropped.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event)
	go func() {
		defer close(out)
		for e := range in {
			if mapped := m.MapEvent(e); mapped != nil {
				out <- mapped
			}
		}
	}()
	return out
}
