package agui

import (
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/delve"
)

// RunAgentInput represents the AG-UI protocol request for running an agent.
// This mirrors the AG-UI protocol specification and is transport-agnostic.
type RunAgentInput struct {
	ThreadID       string           `json:"threadId"`
	RunID          string           `json:"runId"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`          // Ignored: research uses no tools
	Context        []any            `json:"context,omitempty"`        // Context items
	State          any              `json:"state,omitempty"`          // Ignored: every run starts fresh
	ForwardedProps any              `json:"forwardedProps,omitempty"` // Forwarded props
}

// PreparedInput contains validated input ready for a research run.
type PreparedInput struct {
	ThreadID string
	RunID    string
	Query    string
}

// ErrNoMessages is returned when the input contains no messages.
var ErrNoMessages = errors.New("no messages provided")

// Prepare validates the input and extracts the question: the content of the
// last user message. Returns ErrNoMessages if Messages is empty and
// delve.ErrEmptyQuery if no user message carries text.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	if len(r.Messages) == 0 {
		return nil, ErrNoMessages
	}

	query := LastUserMessage(r.Messages)
	if query == "" {
		return nil, delve.ErrEmptyQuery
	}

	return &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Query:    query,
	}, nil
}

// LastUserMessage returns the trimmed content of the last user message, or ""
// when there is none.
func LastUserMessage(msgs []events.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Role != RoleUser || msg.Content == nil {
			continue
		}
		return strings.TrimSpace(*msg.Content)
	}
	return ""
}
