package harness

// TraceEvent is one applied transition as seen by the scenario.
type TraceEvent struct {
	Seq      int64    `json:"seq"`
	Kind     string   `json:"kind"`
	RecordID string   `json:"record_id,omitempty"`
	Status   string   `json:"status"`
	Records  []string `json:"records"`
}

// Final is the session view after the last step.
type Final struct {
	Status  string   `json:"status"`
	Query   string   `json:"query"`
	Records []string `json:"records"`
	Visible []string `json:"visible"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every applied transition in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	Final Final `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Kinds returns the transition kinds of the trace in order.
func (r *Result) Kinds() []string {
	kinds := make([]string, len(r.Trace))
	for i, e := range r.Trace {
		kinds[i] = e.Kind
	}
	return kinds
}
