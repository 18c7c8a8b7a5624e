// Package agui connects delve research runs to the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an open, lightweight, event-based protocol that
// standardizes how AI agents connect to user-facing applications. This package
// converts delve events to AG-UI events and writes them as server-sent events.
//
// # Overview
//
// This package provides:
//   - [RunAgentInput]: the request body; the last user message is the question
//   - [Mapper]: converts delve events to AG-UI events
//   - [WriteSSE]: writes one AG-UI event in SSE framing
//
// # Usage
//
//	var input agui.RunAgentInput
//	_ = json.NewDecoder(r.Body).Decode(&input)
//	prepared, err := input.Prepare()
//
//	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
//	agui.SetSSEHeaders(w)
//	for ev := range mapper.MapStream(researcher.AnswerStream(ctx, prepared.Query)) {
//	    if err := agui.WriteSSE(w, ev); err != nil {
//	        return
//	    }
//	}
//
// # Event Mapping
//
//   - run_start / run_end / run_error → RUN_STARTED / RUN_FINISHED / RUN_ERROR
//   - step_start / step_end → STEP_STARTED / STEP_FINISHED
//   - state_snapshot → STATE_SNAPSHOT with the research state
//   - route_selected → CUSTOM named "route_selected"
//   - message_start / message_delta / message_end → TEXT_MESSAGE_START / _CONTENT / _END
//
// # Thread Safety
//
// The Mapper is NOT safe for concurrent use. Each goroutine should have its own
// Mapper instance.
package agui
