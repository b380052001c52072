package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/story"
)

// AssertionError is returned when an assertion fails.
// It includes the trace so far to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s %v\n", event.Seq, event.Kind, event.Status, event.Records)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the session and the
// trace so far. Returns one message per failed assertion.
func EvaluateAssertions(s *engine.Session, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(s, result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i, err))
		}
	}
	return errs
}

func evaluate(s *engine.Session, result *Result, a Assertion) error {
	switch a.Type {
	case AssertVisible:
		return assertVisible(s.Visible(), a, result.Trace)
	case AssertStatus:
		return assertStatus(s.Snapshot(), a, result.Trace)
	case AssertCount:
		return assertCount(s.Snapshot(), a, result.Trace)
	case AssertQuery:
		if q := s.Query(); q != a.Value {
			return &AssertionError{Type: AssertQuery, Expected: fmt.Sprintf("%q", a.Value), Actual: fmt.Sprintf("%q", q)}
		}
		return nil
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertVisible(visible []story.Record, a Assertion, trace []TraceEvent) error {
	got := story.IDs(visible)
	want := a.IDs
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertVisible,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertStatus(st story.State, a Assertion, trace []TraceEvent) error {
	if got := st.Status.String(); got != a.Status {
		return &AssertionError{
			Type:     AssertStatus,
			Expected: a.Status,
			Actual:   got,
			Trace:    trace,
		}
	}
	return nil
}

func assertCount(st story.State, a Assertion, trace []TraceEvent) error {
	if got := st.Len(); got != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d records", a.Count),
			Actual:   fmt.Sprintf("%d records", got),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that kinds appear in the given relative order.
// Kinds don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(a.Kinds) && event.Kind == a.Kinds[next] {
			next++
		}
	}
	if next < len(a.Kinds) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
			Actual:   fmt.Sprintf("missing %s after position %d", a.Kinds[next], next),
			Trace:    trace,
		}
	}
	return nil
}
