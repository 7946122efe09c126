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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/flavorize/pkg/hasher"
)

// 📊 TargetState represents the drift state of one mapping target
type TargetState int

const (
	StateUnknown TargetState = iota
	StateInSync              // target matches the active flavor's source
	StateDrifted             // target was edited while the flavor is active
	StateMissing             // target does not exist
)

// String returns a string representation of TargetState
func (s TargetState) String() string {
	switch s {
	case StateInSync:
		return "in sync"
	case StateDrifted:
		return "drifted"
	case StateMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// 📄 TargetStatus is the per-target line of a status report
type TargetStatus struct {
	Target       string      // target path relative to the project root
	State        TargetState // drift state against the active flavor source
	CurrentHash  string      // hash of the target as it is on disk
	SourceHash   string      // hash of the active flavor's source file
	BaselineHash string      // pre-flavor hash recorded in the ledger, if any
}

// 📋 Report is the full status of the project
type Report struct {
	ActiveFlavor string
	HasActive    bool
	Targets      []TargetStatus
}

// Status implements Operator.Status. Hash comparison is used only here, for
// reporting; restore and apply decisions are always driven by the ledger's
// exists flag, never by hashes.
func (o *operator) Status(ctx context.Context) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("checking status")

	if err := o.ledger.Load(ctx); err != nil {
		return nil, err
	}

	report := &Report{}
	active, ok := o.ledger.ActiveFlavor()
	if !ok {
		return report, nil
	}
	report.ActiveFlavor = active
	report.HasActive = true

	for _, m := range o.config.Mappings {
		targetPath := o.config.TargetPath(m)
		ts := TargetStatus{Target: m.Target}

		if rec, ok := o.ledger.OriginalFile(m.Target); ok {
			ts.BaselineHash = rec.Hash
		}

		info, err := os.Stat(targetPath)
		if err != nil {
			ts.State = StateMissing
			report.Targets = append(report.Targets, ts)
			continue
		}

		if info.IsDir() {
			// Directory targets are not hashed; existing is as far as the
			// fingerprint mechanism goes for them.
			ts.State = StateInSync
			report.Targets = append(report.Targets, ts)
			continue
		}

		currentHash, _, err := hasher.Hash(targetPath)
		if err != nil {
			return nil, err
		}
		ts.CurrentHash = currentHash

		sourceHash, sourceOK, err := hasher.Hash(filepath.Join(o.config.FlavorDir(active), m.Source))
		if err != nil {
			return nil, err
		}
		ts.SourceHash = sourceHash

		switch {
		case sourceOK && currentHash == sourceHash:
			ts.State = StateInSync
		case sourceOK:
			ts.State = StateDrifted
		default:
			ts.State = StateUnknown
		}
		report.Targets = append(report.Targets, ts)
	}

	return report, nil
}
