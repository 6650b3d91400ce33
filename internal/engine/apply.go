package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/edmv/internal/planner"
)

// Apply renames files according to two listing files, without an editor.
// Line i of the new listing is the new name of line i of the old listing.
func (e *Engine) Apply(ctx context.Context, req *ApplyRequest) (*RenameResult, error) {
	oldData, err := e.fs.ReadFile(req.OldListing)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing %s: %w", req.OldListing, err)
	}
	newData, err := e.fs.ReadFile(req.NewListing)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing %s: %w", req.NewListing, err)
	}

	oldText, newText := string(oldData), string(newData)
	result := &RenameResult{Paths: planner.SplitLines(oldText)}

	plan, err := e.Plan(oldText, newText)
	if err != nil {
		return rejected(result, plan, err)
	}

	result.Rules = plan.Rules
	return e.execute(ctx, result, req.DryRun, req.AssumeYes, req.Preview)
}
