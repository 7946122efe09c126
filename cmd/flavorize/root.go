package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/flavorize/cmd/flavorize/commands"
	"github.com/walteh/flavorize/cmd/flavorize/opts"
	"github.com/walteh/flavorize/pkg/config"
	"github.com/walteh/flavorize/pkg/log"
)

var (
	// Flags
	configFile string
	debug      bool
)

// NewRootCmd creates the flavorize root command
func NewRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "flavorize",
		Short: "Swap flavor-specific files into fixed project paths",
		Long: `Flavorize swaps sets of flavor-specific files (logos, configs, styles)
into fixed target paths inside your project, keeping pristine backups so the
originals can always be restored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			rootOpts.ConfigFile = configFile
			rootOpts.UserLogger = log.New(os.Stdout, logLevel())
		},
	}

	addRootFlags(cmd)

	cmd.AddCommand(commands.NewInitCmd(rootOpts))
	cmd.AddCommand(commands.NewSwitchCmd(rootOpts))
	cmd.AddCommand(commands.NewResetCmd(rootOpts))
	cmd.AddCommand(commands.NewStatusCmd(rootOpts))
	cmd.AddCommand(commands.NewValidateCmd(rootOpts))

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFileName, "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func logLevel() zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	zerolog.SetGlobalLevel(logLevel())
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}
