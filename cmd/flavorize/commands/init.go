package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/flavorize/cmd/flavorize/opts"
	"gitlab.com/tozd/go/errors"
)

const exampleConfig = `{
  "version": "1",
  "flavors": {
    "example": {
      "name": "Example",
      "description": "Replace with your first real flavor"
    }
  },
  "mappings": [
    {
      "source": "logo.png",
      "target": "assets/logo.png"
    }
  ]
}
`

// NewInitCmd creates a new init command
func NewInitCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a flavorize config and example flavor directory",
		Long: `Init writes an example configuration file and creates the matching
flavors/example/ directory so a project can start swapping files right away.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.ConfigFile); err == nil {
				err := errors.Errorf("config file %s already exists", opts.ConfigFile)
				opts.UserLogger.Error(err.Error())
				return err
			}

			if err := os.WriteFile(opts.ConfigFile, []byte(exampleConfig), 0644); err != nil {
				opts.UserLogger.Errorf("writing config: %v", err)
				return errors.Errorf("writing config file: %w", err)
			}

			flavorDir := filepath.Join(filepath.Dir(opts.ConfigFile), "flavors", "example")
			if err := os.MkdirAll(flavorDir, 0755); err != nil {
				opts.UserLogger.Errorf("creating flavor directory: %v", err)
				return errors.Errorf("creating flavor directory: %w", err)
			}

			// Placeholder for the example mapping source so validate passes
			// out of the box.
			placeholder := filepath.Join(flavorDir, "logo.png")
			if err := os.WriteFile(placeholder, []byte{}, 0644); err != nil {
				opts.UserLogger.Errorf("creating placeholder: %v", err)
				return errors.Errorf("creating placeholder file: %w", err)
			}

			opts.UserLogger.Successf("created %s and %s", opts.ConfigFile, flavorDir)
			opts.UserLogger.Info("edit the config, drop real assets into the flavor directory, then run: flavorize switch example")

			return nil
		},
	}

	return cmd
}
