package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/flavorize/cmd/flavorize/opts"
	"github.com/walteh/flavorize/pkg/operation"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active flavor and per-target drift",
		Long: `Status reports which flavor is active and compares every target
against the flavor's source files, flagging targets that were edited
while the flavor has been active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, _, err := opts.NewOperator(ctx)
			if err != nil {
				opts.UserLogger.Errorf("loading project: %v", err)
				return err
			}

			report, err := op.Status(ctx)
			if err != nil {
				opts.UserLogger.Errorf("checking status: %v", err)
				return err
			}

			if !report.HasActive {
				opts.UserLogger.Info("no flavor is active")
				return nil
			}

			opts.UserLogger.Header(fmt.Sprintf("active flavor: %s", report.ActiveFlavor))
			for _, ts := range report.Targets {
				fmt.Fprintf(cmd.OutOrStdout(), "    %s %-35s %s\n",
					stateSymbol(ts.State), ts.Target, ts.State)
			}

			return nil
		},
	}

	return cmd
}

func stateSymbol(s operation.TargetState) string {
	switch s {
	case operation.StateInSync:
		return color.New(color.FgGreen).Sprint("✓")
	case operation.StateDrifted:
		return color.New(color.FgYellow).Sprint("⟳")
	case operation.StateMissing:
		return color.New(color.FgRed).Sprint("✗")
	default:
		return color.New(color.Faint).Sprint("?")
	}
}
