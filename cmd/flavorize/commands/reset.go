package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/flavorize/cmd/flavorize/opts"
	"github.com/walteh/flavorize/pkg/log"
)

// NewResetCmd creates a new reset command
func NewResetCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the original files and deactivate the flavor",
		Long: `Reset returns every target to its pre-flavor baseline.
It will:
1. Restore all backed-up originals (and delete targets that did not exist)
2. Clear the ledger
3. Discard the backup root
4. Remove target entries from the managed .gitignore block`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, _, err := opts.NewOperator(ctx)
			if err != nil {
				opts.UserLogger.Errorf("loading project: %v", err)
				return err
			}

			result, err := op.Reset(ctx)
			if err != nil {
				opts.UserLogger.Errorf("resetting: %v", err)
				return err
			}

			if result.NothingToDo {
				opts.UserLogger.Info("no flavor is active, nothing to do")
				return nil
			}

			for _, target := range result.Restored {
				opts.UserLogger.LogFileOperation(log.FileOperation{Path: target, Action: log.ActionRestored})
			}
			opts.UserLogger.Successf("flavor %q reset, originals restored", result.Flavor)

			return nil
		},
	}

	return cmd
}
