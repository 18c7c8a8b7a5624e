package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spetersoncode/delve"
	"github.com/spetersoncode/delve/extract"
	"github.com/spetersoncode/delve/internal/metrics"
	"github.com/spetersoncode/delve/workflow"
)

// Step names.
const (
	StepGenerateQueries = "generate_queries"
	StepResearch        = "research"
	StepReflect         = "reflect"
	StepFinalize        = "finalize"
)

// Payload keys read from model responses.
const (
	keyQuery               = "query"
	keySummary             = "summary"
	keyIsSufficient        = "isSufficient"
	keyFollowUpQueries     = "followUpQueries"
	keySynthesisedResponse = "synthesisedResponse"
)

const dateLayout = "January 2, 2006"

// steps implements the four research steps against one gateway.
// It holds no per-run data and is shared by concurrent runs.
type steps struct {
	gateway delve.Gateway
	opts    *Options
	log     *slog.Logger
}

func (s *steps) generateQueries(ctx context.Context, state State) (Update, error) {
	prompt := fmt.Sprintf(s.opts.Prompts.GenerateQueries,
		s.opts.MaxQueryCount, state.UserQuery, s.opts.Clock.Now().Format(dateLayout))

	payload, err := s.invoke(ctx, StepGenerateQueries, prompt)
	if err != nil {
		return Update{}, err
	}
	queries, err := payload.Strings(keyQuery)
	if err != nil {
		return Update{}, err
	}

	s.log.Debug("generated queries", "count", len(queries))
	return Update{ResearchQueries: &queries}, nil
}

// research runs one round. Follow-up queries take priority over the initial
// queries; each summary is appended to a copy of the accumulated results.
func (s *steps) research(ctx context.Context, state State) (Update, error) {
	active := state.FollowUpQueries
	source := "follow_up"
	if len(active) == 0 {
		active = state.ResearchQueries
		source = "initial"
	}

	results := make([]string, len(state.ResearchResults), len(state.ResearchResults)+len(active))
	copy(results, state.ResearchResults)

	for _, query := range active {
		// The query is passed twice so templates may use either %s %s or %[1]s twice.
		payload, err := s.invoke(ctx, StepResearch, fmt.Sprintf(s.opts.Prompts.Research, query, query))
		if err != nil {
			return Update{}, err
		}
		summary, err := payload.String(keySummary)
		if err != nil {
			return Update{}, err
		}
		results = append(results, summary)
	}

	round := state.ResearchRoundCount + 1
	s.log.Debug("research round complete", "round", round, "source", source, "queries", len(active))
	return Update{ResearchResults: &results, ResearchRoundCount: &round}, nil
}

func (s *steps) reflect(ctx context.Context, state State) (Update, error) {
	prompt := fmt.Sprintf(s.opts.Prompts.Reflect, state.UserQuery, s.join(state.ResearchResults))

	payload, err := s.invoke(ctx, StepReflect, prompt)
	if err != nil {
		return Update{}, err
	}
	// An absent isSufficient reads as false, so a silent model gets another
	// round until the cap.
	sufficient, err := payload.Bool(keyIsSufficient)
	if err != nil {
		return Update{}, err
	}
	followUps, err := payload.Strings(keyFollowUpQueries)
	if err != nil {
		return Update{}, err
	}

	s.log.Debug("reflected", "sufficient", sufficient, "follow_ups", len(followUps))
	return Update{IsSufficient: &sufficient, FollowUpQueries: &followUps}, nil
}

func (s *steps) finalize(ctx context.Context, state State) (Update, error) {
	prompt := fmt.Sprintf(s.opts.Prompts.Finalize, state.UserQuery, s.join(state.ResearchResults))

	payload, err := s.invoke(ctx, StepFinalize, prompt)
	if err != nil {
		return Update{}, err
	}
	answer, err := payload.String(keySynthesisedResponse)
	if err != nil {
		return Update{}, err
	}
	return Update{FinalAnswer: &answer}, nil
}

// invoke sends one prompt and extracts the structured payload.
func (s *steps) invoke(ctx context.Context, step, prompt string) (extract.Payload, error) {
	text, err := s.gateway.Invoke(ctx, prompt, s.opts.GatewayOptions...)
	if err != nil {
		return nil, &delve.GatewayError{Step: step, Err: err}
	}
	return extract.Extract(text)
}

func (s *steps) join(results []string) string {
	return strings.Join(results, s.opts.Separator)
}

// ShouldContinue is the Reflect branch: Stop once the findings are
// sufficient or maxRounds rounds have run, Continue otherwise.
func ShouldContinue(state State, maxRounds int) workflow.Decision {
	if state.IsSufficient || state.ResearchRoundCount >= maxRounds {
		return workflow.Stop
	}
	return workflow.Continue
}

// timedStep records the duration of every execution of a step.
type timedStep struct {
	workflow.Step[State, Update]
}

func (t timedStep) Run(ctx context.Context, state State) (Update, error) {
	start := time.Now()
	u, err := t.Step.Run(ctx, state)
	metrics.RecordResearchStep(t.Name(), time.Since(start))
	return u, err
}
