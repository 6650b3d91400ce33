package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/edmv/internal/engine"
	"github.com/danieljhkim/edmv/internal/planner"
)

// jsonResult adds the problem text to the JSON form of a result.
type jsonResult struct {
	*engine.RenameResult
	Problem string `json:"problem,omitempty"`
}

// newPreview returns the hook that shows a batch before confirmation. With
// --json, stdout carries only the result document, so the renames go to stderr.
func newPreview(cmd *cobra.Command, jsonOut bool) engine.PreviewFunc {
	if !jsonOut {
		return previewRenames
	}
	w := cmd.ErrOrStderr()
	return func(rules []planner.Rename) {
		for _, r := range rules {
			_, _ = fmt.Fprintf(w, "  %s\n", r)
		}
	}
}

// previewRenames prints the rules of a batch before confirmation.
func previewRenames(rules []planner.Rename) {
	PrintSection("Renames")
	for _, r := range rules {
		PrintRename(r)
	}
	fmt.Println()
}

// reportResult prints the outcome of a session and passes err through, so the
// exit status follows the engine.
func reportResult(w io.Writer, result *engine.RenameResult, err error, jsonOut bool) error {
	if result == nil {
		return err
	}

	if jsonOut {
		out := jsonResult{RenameResult: result}
		if result.Problem != nil {
			out.Problem = result.Problem.Error()
		}
		if encErr := outputJSON(w, out); encErr != nil {
			return encErr
		}
		return err
	}

	switch result.Status {
	case engine.StatusNoSelection:
		PrintEmptyState("No files selected.")
	case engine.StatusNoChanges:
		PrintEmptyState("Found no changes.")
	case engine.StatusInvalidEdit:
		PrintError(result.Problem.Error())
		PrintWarning("Lines must be renamed in place, not added or removed. No files were renamed.")
	case engine.StatusRejected:
		PrintSection("Invalid Renames")
		for _, r := range result.Rules {
			PrintRename(r)
		}
		fmt.Println()
	case engine.StatusCancelled:
		PrintWarning("Cancelled. No files were renamed.")
	case engine.StatusDryRun:
		PrintInfo(fmt.Sprintf("Dry run: would apply %s.", PrintCount(len(result.Rules), "rename", "renames")))
	case engine.StatusApplied:
		PrintSuccess(fmt.Sprintf("Renamed %s", PrintCount(len(result.Report.Done()), "file", "files")))
	case engine.StatusFailed:
		printFailure(result.Report)
	}

	return err
}

// printFailure lists every rule with its state and calls out files that are
// still under a temporary name.
func printFailure(report *engine.Report) {
	if report == nil {
		return
	}

	PrintSection("Rename Failed")
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		rows = append(rows, []string{o.Rule.Source, o.Rule.Dest, o.State.String(), o.Error})
	}
	PrintTable([]string{"SOURCE", "DEST", "STATE", "DETAIL"}, rows)
	fmt.Println()
	PrintLabelValue("Renamed", fmt.Sprint(len(report.Done())))
	PrintLabelValue("Failed", fmt.Sprint(len(report.Failed())))
	PrintLabelValue("Not started", fmt.Sprint(len(report.Outcomes)-len(report.Done())-len(report.Failed())))
	fmt.Println()

	if staged := report.Staged(); len(staged) > 0 {
		PrintError(fmt.Sprintf("%s left under temporary names:", PrintCount(len(staged), "file is", "files are")))
		for _, o := range staged {
			PrintError(fmt.Sprintf("  %s (was %s, meant to become %s)", o.TempPath, o.Rule.Source, o.Rule.Dest))
		}
	}

	if done := report.Done(); len(done) > 0 {
		PrintWarning(fmt.Sprintf("%s already applied were kept:", PrintCount(len(done), "rename", "renames")))
		items := make([]string, 0, len(done))
		for _, o := range done {
			items = append(items, o.Rule.String())
		}
		PrintList(items, 1)
	}
}
