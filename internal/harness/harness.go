package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/fetch"
	"github.com/roach88/hackerstories/internal/persist"
	"github.com/roach88/hackerstories/internal/store"
	"github.com/roach88/hackerstories/internal/story"
	"github.com/roach88/hackerstories/internal/testutil"
)

// scenarioEndpoint is what the stubbed fetcher is asked for on start.
const scenarioEndpoint = "http://scenario.invalid/search"

// Harness executes one scenario against a live session.
type Harness struct {
	session *engine.Session
	fetcher *testutil.StubFetcher
	result  *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh engine with an in-memory query store.
// Assertion failures are reported in the result; the returned error is
// reserved for steps that could not be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := NewResult()
	token := testutil.NewFixedTokenGenerator(scenario.Session).Generate()

	eng := engine.New(token,
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithLogger(logger),
		engine.WithObserver(func(t store.Transition, s story.State) {
			result.Trace = append(result.Trace, TraceEvent{
				Seq:      t.Seq,
				Kind:     t.Kind,
				RecordID: t.RecordID,
				Status:   t.Status,
				Records:  story.IDs(s.Records),
			})
		}),
	)

	fetcher := &testutil.StubFetcher{}
	h := &Harness{
		session: engine.NewSession(eng, engine.SessionConfig{
			Fetcher:      fetcher,
			Queries:      persist.NewMemoryStore(),
			Endpoint:     scenarioEndpoint,
			DefaultQuery: scenario.Query,
			Logger:       logger,
		}),
		fetcher: fetcher,
		result:  result,
	}

	ctx := context.Background()
	for i, step := range scenario.Steps {
		if err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
		for _, msg := range EvaluateAssertions(h.session, result, step.Expect) {
			result.AddError(fmt.Sprintf("after step %d (%s): %s", i, step.Action, msg))
		}
	}

	for _, msg := range EvaluateAssertions(h.session, result, scenario.Assertions) {
		result.AddError(msg)
	}

	view := h.session.View()
	result.Final = Final{
		Status:  view.State.Status.String(),
		Query:   view.Query,
		Records: story.IDs(view.State.Records),
		Visible: story.IDs(view.Visible),
	}

	return result, nil
}

func (h *Harness) execute(ctx context.Context, step Step) error {
	e := h.session.Engine()
	var err error

	switch step.Action {
	case StepFetchStart:
		_, err = e.Dispatch(ctx, story.FetchStart{})
	case StepFetchSuccess:
		_, err = e.Dispatch(ctx, story.FetchSuccess{Records: toRecords(step.Records)})
	case StepFetchFailure:
		_, err = e.Dispatch(ctx, story.FetchFailure{})
	case StepRemove:
		_, err = h.session.Remove(ctx, step.ID)
	case StepQuery:
		err = h.session.SetQuery(ctx, step.Value)
	case StepStart:
		h.fetcher.Records = toRecords(step.Records)
		h.fetcher.Err = nil
		if step.Fail {
			h.fetcher.Err = &fetch.Error{Endpoint: scenarioEndpoint, Err: errors.New("scenario fetch failure")}
		}
		err = h.session.Start(ctx)
		// A failed fetch is an outcome, not an execution error.
		if step.Fail && fetch.IsFetchFailed(err) {
			err = nil
		}
	default:
		err = fmt.Errorf("unknown action %q", step.Action)
	}

	return err
}
