// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package operation implements the flavor switch engine: the state machine
// that decides which targets to back up, overwrite, restore and delete, and
// keeps the ledger and the ignore file in sync with what was actually done.
package operation

import (
	"context"

	"github.com/walteh/flavorize/pkg/backup"
	"github.com/walteh/flavorize/pkg/config"
	"github.com/walteh/flavorize/pkg/gitignore"
	"github.com/walteh/flavorize/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🚨 Engine error kinds. The engine never terminates the process; callers
// decide what a fatal error means for them.
var (
	// ErrNotConfigured means the flavor id is unknown to the configuration
	ErrNotConfigured = errors.Base("flavor not found in configuration")

	// ErrFlavorInactive means the flavor exists but is disabled
	ErrFlavorInactive = errors.Base("flavor is disabled in configuration")

	// ErrStructureInvalid aggregates every missing file/directory of a flavor
	ErrStructureInvalid = errors.Base("flavor structure is invalid")

	// ErrRequiredSourceMissing is raised mid-apply; earlier mappings in the
	// same pass have already mutated the filesystem and are not rolled back
	ErrRequiredSourceMissing = errors.Base("required mapping source is missing")

	// ErrFileOp wraps I/O failures during copy/restore/delete
	ErrFileOp = errors.Base("file operation failed")
)

// 🎯 Operator is the engine API consumed by the CLI
type Operator interface {
	// Switch activates the given flavor, restoring the previous one first
	Switch(ctx context.Context, flavorID string) (*SwitchResult, error)
	// Reset restores all targets to their pre-flavor baseline
	Reset(ctx context.Context) (*ResetResult, error)
	// Status reports the active flavor and per-target drift
	Status(ctx context.Context) (*Report, error)
	// Validate checks the structure of every active flavor
	Validate(ctx context.Context) (*ValidationReport, error)
}

// 🔧 Options contains the engine's collaborators
type Options struct {
	Config  *config.Config
	Ledger  *state.Ledger
	Backups *backup.Store
	Ignore  *gitignore.Syncer
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if opts.Backups == nil {
		return nil, errors.New("backup store is required")
	}
	if opts.Ignore == nil {
		return nil, errors.New("ignore syncer is required")
	}
	return &operator{
		config:  opts.Config,
		ledger:  opts.Ledger,
		backups: opts.Backups,
		ignore:  opts.Ignore,
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	config  *config.Config
	ledger  *state.Ledger
	backups *backup.Store
	ignore  *gitignore.Syncer
}

// 📦 SwitchResult describes what a switch did to the filesystem
type SwitchResult struct {
	Flavor   string   // flavor that is now active
	Previous string   // flavor that was active before, if any
	Restored []string // targets returned to their pre-flavor baseline first
	Captured []string // targets backed up (first activation only)
	Applied  []string // targets overwritten with flavor content
}

// 📦 ResetResult describes what a reset did
type ResetResult struct {
	Flavor      string   // flavor that was deactivated
	Restored    []string // targets returned to their pre-flavor baseline
	NothingToDo bool     // true when no flavor was active
}
