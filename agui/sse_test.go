package agui

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

func TestWriteSSE(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSSEHeaders(rec)

	if err := WriteSSE(rec, events.NewStepStartedEvent("research")); err != nil {
		t.Fatalf("WriteSSE: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", got)
	}
	if !rec.Flushed {
		t.Error("expected response to be flushed")
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "event: STEP_STARTED\ndata: {") {
		t.Errorf("unexpected framing: %q", body)
	}
	if !strings.HasSuffix(body, "}\n\n") {
		t.Errorf("expected blank line terminator: %q", body)
	}
	if !strings.Contains(body, "research") {
		t.Errorf("expected step name in %q", body)
	}
}
