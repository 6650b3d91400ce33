package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/edmv/internal/config"
	"github.com/danieljhkim/edmv/internal/engine"
)

var applyCmd = &cobra.Command{
	Use:   "apply OLD_LISTING NEW_LISTING",
	Short: "Rename files according to two listing files",
	Long: `Rename the paths listed in OLD_LISTING to the paths on the same lines of NEW_LISTING.

Both files must have the same number of lines. Unchanged lines are skipped.
Paths inside the listings are relative to --dir (default: the current directory).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		req := &engine.ApplyRequest{
			OldListing: args[0],
			NewListing: args[1],
			DryRun:     cfg.DryRun,
			AssumeYes:  cfg.AssumeYes,
			Preview:    newPreview(cmd, cfg.JSON),
		}

		result, err := newEngine(cfg).Apply(context.Background(), req)
		return reportResult(cmd.OutOrStdout(), result, err, cfg.JSON)
	},
}

func init() {
	applyCmd.Flags().BoolP(config.FlagYes, "y", false, "Apply without asking for confirmation")
	applyCmd.Flags().BoolP(config.FlagDryRun, "n", false, "Show the renames without applying them")
}
