package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/flavorize/cmd/flavorize/opts"
	"github.com/walteh/flavorize/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewSwitchCmd creates a new switch command
func NewSwitchCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch [flavor]",
		Short: "Switch the project to a flavor",
		Long: `Switch applies a flavor's files to their target paths.
It will:
1. Validate the flavor's structure
2. Restore the previously active flavor, if any
3. Back up original files on the first activation
4. Copy the flavor's files over the targets
5. Update the ledger and the managed .gitignore block`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, cfg, err := opts.NewOperator(ctx)
			if err != nil {
				opts.UserLogger.Errorf("loading project: %v", err)
				return err
			}

			var flavorID string
			if len(args) == 1 {
				flavorID = args[0]
			} else {
				ids := cfg.ActiveFlavorIDs()
				if len(ids) == 0 {
					err := errors.New("no active flavors configured")
					opts.UserLogger.Error(err.Error())
					return err
				}
				flavorID, err = pterm.DefaultInteractiveSelect.
					WithOptions(ids).
					Show("Select a flavor")
				if err != nil {
					return errors.Errorf("selecting flavor: %w", err)
				}
			}

			result, err := op.Switch(ctx, flavorID)
			if err != nil {
				opts.UserLogger.Errorf("switching to %q: %v", flavorID, err)
				return err
			}

			for _, target := range result.Restored {
				opts.UserLogger.LogFileOperation(log.FileOperation{Path: target, Action: log.ActionRestored})
			}
			for _, target := range result.Captured {
				opts.UserLogger.LogFileOperation(log.FileOperation{Path: target, Action: log.ActionCaptured})
			}
			for _, target := range result.Applied {
				opts.UserLogger.LogFileOperation(log.FileOperation{Path: target, Action: log.ActionApplied})
			}
			opts.UserLogger.Successf("switched to flavor %q (%s)", result.Flavor,
				pluralize(len(result.Applied), "file applied", "files applied"))

			return nil
		},
	}

	return cmd
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
