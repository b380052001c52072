package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hackerstories/internal/story"
)

// Scenario defines a story scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Session is the fixed session token stamped on every transition.
	// Defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	// Query is the query the session starts with.
	Query string `yaml:"query,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scenario step.
type Step struct {
	// Action is one of the Step* constants.
	Action string `yaml:"action"`

	// Records is the payload of fetch_success and start.
	Records []RecordSpec `yaml:"records,omitempty"`

	// ID is the record removed by remove.
	ID string `yaml:"id,omitempty"`

	// Value is the new query for query.
	Value string `yaml:"value,omitempty"`

	// Fail makes the stubbed fetch of start fail.
	Fail bool `yaml:"fail,omitempty"`

	// Expect holds assertions evaluated right after this step.
	Expect []Assertion `yaml:"expect,omitempty"`
}

// RecordSpec is a record as written in scenario files.
type RecordSpec struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	URL          string `yaml:"url,omitempty"`
	Author       string `yaml:"author,omitempty"`
	CommentCount int    `yaml:"num_comments,omitempty"`
	Points       int    `yaml:"points,omitempty"`
}

// Record converts the YAML form into a story.Record.
func (r RecordSpec) Record() story.Record {
	return story.Record{
		Title:        r.Title,
		URL:          r.URL,
		Author:       r.Author,
		CommentCount: r.CommentCount,
		Points:       r.Points,
		ID:           r.ID,
	}
}

func toRecords(specs []RecordSpec) []story.Record {
	out := make([]story.Record, len(specs))
	for i, s := range specs {
		out[i] = s.Record()
	}
	return out
}

// Step actions.
const (
	StepFetchStart   = "fetch_start"
	StepFetchSuccess = "fetch_success"
	StepFetchFailure = "fetch_failure"
	StepRemove       = "remove"
	StepQuery        = "query"
	StepStart        = "start"
)

// Assertion validates the session after a step or at the end.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// IDs are the expected visible record ids, in order (visible).
	IDs []string `yaml:"ids,omitempty"`

	// Status is the expected status name (status).
	Status string `yaml:"status,omitempty"`

	// Count is the expected number of records in the store (count).
	Count int `yaml:"count,omitempty"`

	// Value is the expected query (query).
	Value string `yaml:"value,omitempty"`

	// Kinds are transition kinds expected in this relative order
	// (trace_order). Other transitions may appear in between.
	Kinds []string `yaml:"kinds,omitempty"`
}

// Assertion types.
const (
	AssertVisible    = "visible"
	AssertStatus     = "status"
	AssertCount      = "count"
	AssertQuery      = "query"
	AssertTraceOrder = "trace_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
		for j, a := range step.Expect {
			if err := validateAssertion(fmt.Sprintf("steps[%d].expect[%d]", i, j), &a); err != nil {
				return err
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(fmt.Sprintf("assertions[%d]", i), &a); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	switch s.Action {
	case StepFetchStart, StepFetchFailure, StepQuery:
	case StepFetchSuccess, StepStart:
		for j, r := range s.Records {
			if r.ID == "" {
				return fmt.Errorf("steps[%d].records[%d]: id is required", index, j)
			}
		}
	case StepRemove:
		if s.ID == "" {
			return fmt.Errorf("steps[%d]: id is required for remove", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(where string, a *Assertion) error {
	switch a.Type {
	case AssertVisible, AssertQuery:
	case AssertStatus:
		if _, err := story.ParseStatus(a.Status); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative", where)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("%s: kinds list is required for trace_order", where)
		}
	case "":
		return fmt.Errorf("%s: type is required", where)
	default:
		return fmt.Errorf("%s: unknown assertion type %q", where, a.Type)
	}
	return nil
}
