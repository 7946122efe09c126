package commands

import (
	"sort"

	"github.com/spf13/cobra"
	"github.com/walteh/flavorize/cmd/flavorize/opts"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the structure of every active flavor",
		Long: `Validate checks that each active flavor's directory exists and
contains every required file, directory and mapping source. All problems
of all flavors are reported, not just the first one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, _, err := opts.NewOperator(ctx)
			if err != nil {
				opts.UserLogger.Errorf("loading project: %v", err)
				return err
			}

			report, err := op.Validate(ctx)
			if err != nil {
				opts.UserLogger.Errorf("validating: %v", err)
				return err
			}

			if report.OK() {
				opts.UserLogger.Success("all flavors are valid")
				return nil
			}

			ids := make([]string, 0, len(report.Problems))
			for id := range report.Problems {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				opts.UserLogger.Warningf("flavor %q:", id)
				for _, problem := range report.Problems[id] {
					opts.UserLogger.Errorf("  %s", problem)
				}
			}

			return errors.Errorf("%d flavor(s) failed validation", len(report.Problems))
		},
	}

	return cmd
}
