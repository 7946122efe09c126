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

	"github.com/rs/zerolog"
)

// Reset implements Operator.Reset. With no active flavor it is a no-op
// reported to the caller as nothing to do. Otherwise every recorded target
// goes back to its pre-flavor baseline, the ledger is cleared and persisted
// (the file itself survives, holding the empty ledger), the backup root is
// discarded and the ignore block loses its target entries.
func (o *operator) Reset(ctx context.Context) (*ResetResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("resetting flavor")

	if err := o.ledger.Load(ctx); err != nil {
		return nil, err
	}

	active, ok := o.ledger.ActiveFlavor()
	if !ok {
		logger.Debug().Msg("no flavor active, nothing to do")
		return &ResetResult{NothingToDo: true}, nil
	}

	restored, err := o.restoreAll(ctx)
	if err != nil {
		return nil, err
	}

	o.ledger.Reset()
	if err := o.ledger.Save(ctx); err != nil {
		return nil, err
	}

	if err := o.backups.Discard(ctx); err != nil {
		return nil, err
	}

	if err := o.ignore.Sync(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info().
		Str("flavor", active).
		Int("restored", len(restored)).
		Msg("flavor reset")
	return &ResetResult{Flavor: active, Restored: restored}, nil
}
