package engine

import (
	"fmt"

	"github.com/danieljhkim/edmv/internal/planner"
)

// RuleState is the execution state of a single rule.
//
// Rules move Planned → DirectApplied, or Planned → Pending → Staged → Done.
// Any state may end in Failed.
type RuleState int

const (
	StatePlanned RuleState = iota
	StateDirectApplied
	StatePending
	StateStaged
	StateDone
	StateFailed
)

var stateNames = map[RuleState]string{
	StatePlanned:       "planned",
	StateDirectApplied: "applied",
	StatePending:       "pending",
	StateStaged:        "staged",
	StateDone:          "done",
	StateFailed:        "failed",
}

func (s RuleState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RuleState(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s RuleState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsDone returns true if the rule reached its destination.
func (s RuleState) IsDone() bool {
	return s == StateDirectApplied || s == StateDone
}

// Outcome is the result of a single rule.
type Outcome struct {
	// Rule is the rename this outcome belongs to
	Rule planner.Rename `json:"rule"`

	// State is the last state the rule reached
	State RuleState `json:"state"`

	// TempPath is the staging path, set once the rule was staged
	TempPath string `json:"tempPath,omitempty"`

	// Err explains a failed rule
	Err error `json:"-"`

	// Error is Err as text, for JSON output
	Error string `json:"error,omitempty"`
}

// Report holds one outcome per rule in the original rule order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

func newReport(rules []planner.Rename) *Report {
	outcomes := make([]Outcome, len(rules))
	for i, r := range rules {
		outcomes[i] = Outcome{Rule: r, State: StatePlanned}
	}
	return &Report{Outcomes: outcomes}
}

func (r *Report) set(i int, state RuleState) {
	r.Outcomes[i].State = state
}

func (r *Report) fail(i int, err error) {
	r.Outcomes[i].State = StateFailed
	r.Outcomes[i].Err = err
	r.Outcomes[i].Error = err.Error()
}

func (r *Report) filter(keep func(Outcome) bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// Done returns the outcomes of rules that reached their destination.
func (r *Report) Done() []Outcome {
	return r.filter(func(o Outcome) bool { return o.State.IsDone() })
}

// Failed returns the outcomes of failed rules.
func (r *Report) Failed() []Outcome {
	return r.filter(func(o Outcome) bool { return o.State == StateFailed })
}

// Staged returns the outcomes of rules whose file is still under its temporary name.
func (r *Report) Staged() []Outcome {
	return r.filter(func(o Outcome) bool { return o.TempPath != "" && !o.State.IsDone() })
}

// Pending returns the outcomes of rules that were deferred but never staged.
func (r *Report) Pending() []Outcome {
	return r.filter(func(o Outcome) bool { return o.State == StatePending })
}

// OK returns true if every rule reached its destination.
func (r *Report) OK() bool {
	for _, o := range r.Outcomes {
		if !o.State.IsDone() {
			return false
		}
	}
	return true
}
