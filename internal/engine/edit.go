package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/edmv/internal/editor"
	"github.com/danieljhkim/edmv/internal/planner"
)

// Algorithm steps:
// 1. Resolve paths (request or selector)
// 2. Hand the listing to the editor
// 3. Derive and validate rules, re-opening the editor on a bad edit if asked to
// 4. Preview, confirm and execute
func (e *Engine) Edit(ctx context.Context, req *EditRequest) (*RenameResult, error) {
	paths := req.Paths
	if len(paths) == 0 {
		if e.selector == nil {
			return nil, ErrNoSelector
		}
		selected, err := e.selector.Select(req.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to select files: %w", err)
		}
		paths = selected
	}

	result := &RenameResult{Paths: paths}
	if len(paths) == 0 {
		result.Status = StatusNoSelection
		return result, nil
	}

	oldText := planner.JoinListing(paths)
	text := oldText
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		edited, err := e.editor.Edit(text)
		if errors.Is(err, editor.ErrAborted) {
			result.Status = StatusCancelled
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to edit listing: %w", err)
		}

		plan, err := e.Plan(oldText, edited)
		if err == nil {
			result.Rules = plan.Rules
			break
		}
		e.logger.Warn("edited listing rejected", zap.Error(err))

		if req.Retry {
			again, promptErr := e.prompt.Confirm(fmt.Sprintf("%v. Edit again?", err), true)
			if promptErr != nil {
				return nil, fmt.Errorf("failed to prompt: %w", promptErr)
			}
			if again {
				text = edited
				continue
			}
		}

		return rejected(result, plan, err)
	}

	return e.execute(ctx, result, req.DryRun, req.AssumeYes, req.Preview)
}

// rejected records a planning problem on the result. A changed line count is
// only reported, a validation failure is returned as an error.
func rejected(result *RenameResult, plan *PlanResult, err error) (*RenameResult, error) {
	result.Problem = err
	result.Rules = plan.Rules
	switch {
	case errors.Is(err, planner.ErrInputShape):
		result.Status = StatusInvalidEdit
		return result, nil
	case errors.Is(err, planner.ErrValidation):
		result.Status = StatusRejected
		return result, err
	default:
		return nil, err
	}
}

func (e *Engine) execute(ctx context.Context, result *RenameResult, dryRun, assumeYes bool, preview PreviewFunc) (*RenameResult, error) {
	if len(result.Rules) == 0 {
		result.Status = StatusNoChanges
		return result, nil
	}

	if preview != nil {
		preview(result.Rules)
	}

	if dryRun {
		result.Status = StatusDryRun
		return result, nil
	}

	if !assumeYes {
		ok, err := e.prompt.Confirm(fmt.Sprintf("Apply %s?", countRenames(len(result.Rules))), false)
		if err != nil {
			return nil, fmt.Errorf("failed to prompt: %w", err)
		}
		if !ok {
			result.Status = StatusCancelled
			return result, nil
		}
	}

	// No cancellation past this point
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := e.executor.Execute(result.Rules)
	result.Report = report
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}

	result.Status = StatusApplied
	return result, nil
}

func countRenames(n int) string {
	if n == 1 {
		return "1 rename"
	}
	return fmt.Sprintf("%d renames", n)
}
