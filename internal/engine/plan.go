package engine

import "github.com/danieljhkim/edmv/internal/planner"

// Plan derives the rules between two listings and validates them.
// On a validation failure the derived rules are still returned.
func (e *Engine) Plan(oldText, newText string) (*PlanResult, error) {
	rules, err := planner.DeriveRules(oldText, newText)
	if err != nil {
		return &PlanResult{}, err
	}

	if err := planner.Validate(rules); err != nil {
		return &PlanResult{Rules: rules}, err
	}

	return &PlanResult{Rules: rules}, nil
}
