package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/agui"
	"github.com/spetersoncode/delve/extract"
	"github.com/spetersoncode/delve/workflow"
)

// handleQuery answers the question in the request body (or the q parameter)
// as plain text.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.requestLogger(r)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxQueryBytes))
	if err != nil {
		log.Warn("failed to read request body", "error", err)
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	query := strings.TrimSpace(string(body))
	if query == "" {
		query = strings.TrimSpace(r.URL.Query().Get("q"))
	}
	if query == "" {
		s.writeError(w, http.StatusBadRequest, delve.ErrEmptyQuery.Error())
		return
	}

	log.Info("request started", "query_chars", len(query))
	answer, err := s.researcher.Answer(r.Context(), query)
	if err != nil {
		status := statusFor(err)
		level := slog.LevelWarn
		if delve.IsPermanent(err) {
			// bad credentials or an unknown model
			level = slog.LevelError
		}
		log.Log(r.Context(), level, "request failed", "status", status, "provider_status", delve.StatusCodeOf(err),
			"duration_ms", time.Since(start).Milliseconds(), "error", err)
		s.writeError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, answer)
	log.Info("request completed", "duration_ms", time.Since(start).Milliseconds())
}

// handleResearch runs research for an AG-UI request and streams AG-UI events.
// Failures after the stream has started are reported as RUN_ERROR events.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var input agui.RunAgentInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxQueryBytes)).Decode(&input); err != nil {
		s.requestLogger(r).Warn("invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prepared, err := input.Prepare()
	if err != nil {
		s.requestLogger(r).Warn("invalid input", "error", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	log := s.requestLogger(r).With("run_id", mapper.RunID(), "thread_id", mapper.ThreadID())
	log.Info("stream started", "query_chars", len(prepared.Query))

	agui.SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	stream := s.researcher.AnswerStream(r.Context(), prepared.Query, workflow.WithRunID(mapper.RunID()))

	var eventCount int
	var writeErr error
	for ev := range mapper.MapStream(stream) {
		if writeErr != nil {
			continue // drain so the run can finish
		}
		eventCount++
		log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", eventCount)
		if err := agui.WriteSSE(w, ev); err != nil {
			writeErr = err
		}
	}

	duration := time.Since(start)
	if writeErr != nil {
		log.Error("stream failed", "duration_ms", duration.Milliseconds(), "events_sent", eventCount, "error", writeErr)
		return
	}
	log.Info("stream completed", "duration_ms", duration.Milliseconds(), "events_sent", eventCount)
}

// statusFor maps a research error to an HTTP status code. Context errors
// are checked first since gateway failures may wrap them.
func statusFor(err error) int {
	switch {
	case errors.Is(err, delve.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, extract.ErrMissingPayloadMarkers),
		errors.Is(err, extract.ErrMalformedPayload):
		return http.StatusBadGateway
	case errors.Is(err, delve.ErrGatewayFailure):
		return gatewayStatus(err)
	default:
		return http.StatusInternalServerError
	}
}

// gatewayStatus maps a provider failure by its category. Rate limits pass
// through so clients can back off; other failures of the upstream call are
// reported as gateway errors.
func gatewayStatus(err error) int {
	switch {
	case delve.StatusCodeOf(err) == http.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case delve.IsTransient(err):
		return http.StatusServiceUnavailable
	case delve.IsUserInput(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
