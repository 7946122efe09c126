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

// Package gitignore maintains a managed block inside the project's
// .gitignore so flavor-owned paths never leak into version control.
package gitignore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/flavorize/pkg/backup"
	"github.com/walteh/flavorize/pkg/state"
	"gitlab.com/tozd/go/errors"
)

const (
	// 📛 FileName is the ignore file maintained at the project root
	FileName = ".gitignore"

	// Marker delimits the managed block; everything after it is regenerated
	Marker = "# flavorize managed - do not edit below this line"
)

// 🔄 Syncer rewrites the managed block of the ignore file
type Syncer struct {
	projectRoot string
}

// 🏭 New creates a syncer for the given project root
func New(projectRoot string) *Syncer {
	return &Syncer{projectRoot: filepath.Clean(projectRoot)}
}

// Path returns the ignore file path
func (s *Syncer) Path() string {
	return filepath.Join(s.projectRoot, FileName)
}

// 🔁 Sync regenerates the managed block. The ledger file and backup root are
// always listed; targets (in configuration order) only while a flavor is
// active, so callers pass nil after a reset. Truncating at the marker before
// appending keeps the operation idempotent with exactly one marker occurrence
// no matter how many times it runs.
func (s *Syncer) Sync(ctx context.Context, activeTargets []string) error {
	path := s.Path()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Errorf("reading ignore file: %w", err)
	}

	content := string(data)
	if idx := strings.Index(content, Marker); idx >= 0 {
		content = content[:idx]
	}
	content = strings.TrimRight(content, " \t\r\n")

	var b strings.Builder
	if content != "" {
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	b.WriteString(Marker)
	b.WriteString("\n")
	b.WriteString(state.LockFileName)
	b.WriteString("\n")
	b.WriteString(backup.DirName + "/")
	b.WriteString("\n")
	for _, target := range activeTargets {
		b.WriteString(filepath.ToSlash(target))
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Errorf("writing ignore file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("targets", len(activeTargets)).
		Msg("ignore file synced")
	return nil
}
