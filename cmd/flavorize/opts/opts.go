package opts

import (
	"context"

	"github.com/walteh/flavorize/pkg/backup"
	"github.com/walteh/flavorize/pkg/config"
	"github.com/walteh/flavorize/pkg/gitignore"
	"github.com/walteh/flavorize/pkg/log"
	"github.com/walteh/flavorize/pkg/operation"
	"github.com/walteh/flavorize/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	UserLogger *log.Logger
}

// LoadConfig loads and validates the configuration file
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// NewOperator builds the switch engine and its collaborators for the
// configured project root. Config loading happens here rather than at root
// command setup so commands that work without a config (init) still run.
func (o *RootOpts) NewOperator(ctx context.Context) (operation.Operator, *config.Config, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	root := cfg.Root()
	op, err := operation.New(operation.Options{
		Config:  cfg,
		Ledger:  state.New(root),
		Backups: backup.New(root),
		Ignore:  gitignore.New(root),
	})
	if err != nil {
		return nil, nil, errors.Errorf("creating operator: %w", err)
	}

	return op, cfg, nil
}
