package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/edmv/internal/config"
	"github.com/danieljhkim/edmv/internal/engine"
)

var editCmd = &cobra.Command{
	Use:   "edit [paths...]",
	Short: "Rename files by editing their paths in your editor",
	Long: `Open the given paths, or the files picked in the interactive selector, in your editor.

Change a line to rename that path; leave it untouched to keep the name. Do not
add or remove lines. After the editor exits, edmv shows the renames and asks
for confirmation before applying them.

Paths are relative to --dir (default: the current directory).`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		req := &engine.EditRequest{
			Paths:     args,
			Query:     cfg.Query,
			DryRun:    cfg.DryRun,
			AssumeYes: cfg.AssumeYes,
			Retry:     cfg.Retry,
			Preview:   newPreview(cmd, cfg.JSON),
		}

		result, err := newEngine(cfg).Edit(context.Background(), req)
		return reportResult(cmd.OutOrStdout(), result, err, cfg.JSON)
	},
}

func init() {
	editCmd.Flags().StringP(config.FlagQuery, "q", "", "Pre-filter the file picker (fuzzy text, or a glob such as '**/*.jpg')")
	editCmd.Flags().String(config.FlagEditor, "", "Editor command (default: $EDMV_EDITOR, $EDITOR, then vi)")
	editCmd.Flags().BoolP(config.FlagYes, "y", false, "Apply without asking for confirmation")
	editCmd.Flags().BoolP(config.FlagDryRun, "n", false, "Show the renames without applying them")
	editCmd.Flags().Bool(config.FlagHidden, false, "List hidden files in the file picker")
	editCmd.Flags().Bool(config.FlagNoRetry, false, "Do not offer to reopen the editor after an invalid edit")
}
