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

package operation

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/flavorize/pkg/config"
	"github.com/walteh/flavorize/pkg/hasher"
	"github.com/walteh/flavorize/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// Switch implements Operator.Switch. Order matters: validation happens before
// any filesystem mutation, and the ledger is persisted only after the
// mutations it describes have completed, so a crash mid-switch leaves the
// ledger consistent with the previous confirmed state at worst.
func (o *operator) Switch(ctx context.Context, flavorID string) (*SwitchResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("flavor", flavorID).Msg("switching flavor")

	flavor, ok := o.config.Flavor(flavorID)
	if !ok {
		return nil, errors.Errorf("flavor %q: %w", flavorID, ErrNotConfigured)
	}
	if !flavor.IsActive() {
		return nil, errors.Errorf("flavor %q: %w", flavorID, ErrFlavorInactive)
	}

	// Layout only; a missing required mapping source is an apply-time failure
	// so earlier mappings in the pass stay applied (no rollback).
	if problems, _ := o.validateLayout(flavorID); len(problems) > 0 {
		return nil, errors.Errorf("flavor %q: %s: %w", flavorID, strings.Join(problems, "; "), ErrStructureInvalid)
	}

	if err := o.ledger.Load(ctx); err != nil {
		return nil, err
	}

	result := &SwitchResult{Flavor: flavorID}

	// Restore the previous flavor's targets to the pre-flavor baseline first,
	// conceptually passing through the no-active-flavor state.
	previous, hasPrevious := o.ledger.ActiveFlavor()
	if hasPrevious {
		result.Previous = previous
		restored, err := o.restoreAll(ctx)
		if err != nil {
			return nil, err
		}
		result.Restored = restored
	}

	// Backups are captured only when transitioning from the no-active-flavor
	// state. On a direct flavor-to-flavor switch the ledger's records from
	// the very first activation remain valid and are kept as-is.
	if !hasPrevious {
		captured, err := o.captureAll(ctx)
		if err != nil {
			return nil, err
		}
		result.Captured = captured
		if err := o.ledger.Save(ctx); err != nil {
			return nil, err
		}
	}

	// Apply the target flavor. A missing required source aborts here; earlier
	// mappings in this pass have already been written and stay that way.
	for _, m := range o.config.Mappings {
		if !o.sourceExists(flavorID, m) {
			if m.IsRequired() {
				return nil, errors.Errorf("flavor %q: source %q: %w", flavorID, m.Source, ErrRequiredSourceMissing)
			}
			logger.Debug().Str("source", m.Source).Msg("optional source missing, skipping")
			continue
		}
		if err := o.applyMapping(ctx, flavorID, m); err != nil {
			return nil, errors.Errorf("applying %s: %w: %w", m.Target, ErrFileOp, err)
		}
		result.Applied = append(result.Applied, m.Target)
	}

	o.ledger.SetActiveFlavor(flavorID)
	if err := o.ledger.Save(ctx); err != nil {
		return nil, err
	}

	if err := o.ignore.Sync(ctx, o.config.TargetPaths()); err != nil {
		return nil, err
	}

	logger.Info().
		Str("flavor", flavorID).
		Int("applied", len(result.Applied)).
		Int("captured", len(result.Captured)).
		Msg("flavor switched")
	return result, nil
}

// captureAll backs up every mapping target that currently exists and records
// a FileRecord for each distinct target, existing or not.
func (o *operator) captureAll(ctx context.Context) ([]string, error) {
	var captured []string
	seen := map[string]bool{}

	for _, m := range o.config.Mappings {
		if seen[m.Target] {
			continue
		}
		seen[m.Target] = true

		targetPath := o.config.TargetPath(m)
		info, err := os.Stat(targetPath)
		exists := err == nil
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Errorf("stating %s: %w: %w", m.Target, ErrFileOp, err)
		}

		rec := state.FileRecord{Exists: exists, Type: m.Type}
		if exists {
			if info.IsDir() {
				rec.Type = config.TypeDirectory
			} else {
				rec.Type = config.TypeFile
				digest, ok, err := hasher.Hash(targetPath)
				if err != nil {
					return nil, errors.Errorf("hashing %s: %w: %w", m.Target, ErrFileOp, err)
				}
				if ok {
					rec.Hash = digest
				}
			}
			if err := o.backups.Capture(ctx, m.Target); err != nil {
				return nil, errors.Errorf("capturing %s: %w: %w", m.Target, ErrFileOp, err)
			}
			captured = append(captured, m.Target)
		}
		o.ledger.PutOriginalFile(m.Target, rec)
	}

	return captured, nil
}

// restoreAll returns every recorded target to its pre-flavor baseline: copy
// the backup over targets that existed, delete targets that did not.
func (o *operator) restoreAll(ctx context.Context) ([]string, error) {
	var restored []string

	for _, target := range o.ledger.OriginalTargets() {
		rec, _ := o.ledger.OriginalFile(target)
		if rec.Exists {
			if err := o.backups.Restore(ctx, target); err != nil {
				return nil, errors.Errorf("restoring %s: %w: %w", target, ErrFileOp, err)
			}
		} else {
			if err := os.RemoveAll(o.config.ResolvePath(target)); err != nil {
				return nil, errors.Errorf("removing %s: %w: %w", target, ErrFileOp, err)
			}
		}
		restored = append(restored, target)
	}

	return restored, nil
}
