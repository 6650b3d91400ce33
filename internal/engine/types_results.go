package engine

import "github.com/danieljhkim/edmv/internal/planner"

// Status summarizes how a rename session ended.
type Status string

const (
	StatusNoSelection Status = "no-selection"
	StatusNoChanges   Status = "no-changes"
	StatusInvalidEdit Status = "invalid-edit"
	StatusRejected    Status = "rejected"
	StatusCancelled   Status = "cancelled"
	StatusDryRun      Status = "dry-run"
	StatusApplied     Status = "applied"
	StatusFailed      Status = "failed"
)

// PlanResult represents the rules derived from two listings.
type PlanResult struct {
	// Rules is the derived rule set, in line order
	Rules []planner.Rename `json:"rules"`
}

// RenameResult represents the result of a rename session.
type RenameResult struct {
	// Status is how the session ended
	Status Status `json:"status"`

	// Paths is the listing that was handed to the editor
	Paths []string `json:"paths,omitempty"`

	// Rules is the derived rule set
	Rules []planner.Rename `json:"rules,omitempty"`

	// Report is the execution report (nil unless execution started)
	Report *Report `json:"report,omitempty"`

	// Problem explains an invalid or rejected edit
	Problem error `json:"-"`
}
