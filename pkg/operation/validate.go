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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// 📋 ValidationReport aggregates structure problems across flavors
type ValidationReport struct {
	// Problems maps flavor id to every structure problem found for it;
	// flavors with no problems are absent
	Problems map[string][]string
}

// OK reports whether no flavor had problems
func (r *ValidationReport) OK() bool {
	return len(r.Problems) == 0
}

// Validate implements Operator.Validate. Every active flavor is checked
// concurrently; the report lists all problems of all flavors, not just the
// first one found. Validation never mutates the filesystem.
func (o *operator) Validate(ctx context.Context) (*ValidationReport, error) {
	logger := zerolog.Ctx(ctx)

	report := &ValidationReport{Problems: map[string][]string{}}
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for _, id := range o.config.ActiveFlavorIDs() {
		id := id
		g.Go(func() error {
			problems := o.validateStructure(id)
			if len(problems) > 0 {
				mu.Lock()
				report.Problems[id] = problems
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug().Int("flavors_with_problems", len(report.Problems)).Msg("validation finished")
	return report, nil
}

// validateLayout collects layout problems of one flavor: missing flavor root
// (which short-circuits, since nothing below it can be checked) and missing
// requiredStructure entries. This is the pre-switch check; missing mapping
// sources are deliberately left to surface during apply.
func (o *operator) validateLayout(flavorID string) (problems []string, rootOK bool) {
	root := o.config.FlavorDir(flavorID)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return []string{fmt.Sprintf("flavor directory %s does not exist", root)}, false
	}

	for _, f := range o.config.RequiredStructure.Files {
		info, err := os.Stat(filepath.Join(root, f))
		if err != nil || info.IsDir() {
			problems = append(problems, fmt.Sprintf("required file %s is missing", f))
		}
	}
	for _, d := range o.config.RequiredStructure.Directories {
		info, err := os.Stat(filepath.Join(root, d))
		if err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("required directory %s is missing", d))
		}
	}

	return problems, true
}

// validateStructure is the full standalone check: layout plus every required
// mapping source. An aggregated list, never just the first hit.
func (o *operator) validateStructure(flavorID string) []string {
	problems, rootOK := o.validateLayout(flavorID)
	if !rootOK {
		return problems
	}

	for _, m := range o.config.Mappings {
		if m.IsRequired() && !o.sourceExists(flavorID, m) {
			problems = append(problems, fmt.Sprintf("required mapping source %s is missing", m.Source))
		}
	}

	return problems
}
