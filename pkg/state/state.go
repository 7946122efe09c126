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

// Package state persists the flavor ledger: which flavor is active and what
// each mapping target looked like before any flavor was applied.
package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/flavorize/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📛 LockFileName is the ledger file kept at the project root
const LockFileName = ".flavorize.lock"

const schemaVersion = "1.0.0"

// 📄 FileRecord captures what a mapping target looked like before the very
// first flavor was applied. Hash is empty for directories and absent targets.
type FileRecord struct {
	Hash   string          `json:"hash,omitempty"`
	Exists bool            `json:"exists"`
	Type   config.PathType `json:"type"`
}

// 📄 LedgerFile is the on-disk ledger format
type LedgerFile struct {
	SchemaVersion string                `json:"schema_version"`
	LastUpdated   time.Time             `json:"last_updated"`
	CurrentFlavor *string               `json:"currentFlavor"`
	OriginalFiles map[string]FileRecord `json:"originalFiles"`
}

// 🔒 Ledger is the in-memory ledger manager
type Ledger struct {
	mu   sync.RWMutex
	file *LedgerFile
	path string
}

// 🏭 New creates a ledger manager for the given project root
func New(projectRoot string) *Ledger {
	return &Ledger{
		file: emptyLedgerFile(),
		path: filepath.Join(filepath.Clean(projectRoot), LockFileName),
	}
}

func emptyLedgerFile() *LedgerFile {
	return &LedgerFile{
		SchemaVersion: schemaVersion,
		OriginalFiles: map[string]FileRecord{},
	}
}

// Path returns the ledger file path
func (l *Ledger) Path() string {
	return l.path
}

// 📖 Load reads the persisted ledger. A missing file yields a fresh empty
// ledger; unreadable or corrupt content logs a warning and also yields a
// fresh ledger rather than failing the caller.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", l.path).Msg("no ledger found, starting fresh")
		l.file = emptyLedgerFile()
		return nil
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", l.path).Msg("ledger unreadable, starting fresh")
		l.file = emptyLedgerFile()
		return nil
	}

	var file LedgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Warn().Err(err).Str("path", l.path).Msg("ledger corrupt, starting fresh")
		l.file = emptyLedgerFile()
		return nil
	}

	if file.OriginalFiles == nil {
		file.OriginalFiles = map[string]FileRecord{}
	}
	l.file = &file
	return nil
}

// 💾 Save serializes the ledger and overwrites the persisted file using
// write-then-rename so a crash never leaves a truncated ledger behind.
func (l *Ledger) Save(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.file.SchemaVersion = schemaVersion
	l.file.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(l.file, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling ledger: %w", err)
	}
	data = append(data, '\n')

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Errorf("writing temp ledger: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp ledger: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", l.path).Msg("ledger saved")
	return nil
}

// ActiveFlavor returns the currently active flavor id, if any
func (l *Ledger) ActiveFlavor() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.file.CurrentFlavor == nil {
		return "", false
	}
	return *l.file.CurrentFlavor, true
}

// SetActiveFlavor records the active flavor
func (l *Ledger) SetActiveFlavor(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file.CurrentFlavor = &id
}

// PutOriginalFile records the pre-flavor state of a mapping target
func (l *Ledger) PutOriginalFile(target string, rec FileRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file.OriginalFiles[target] = rec
}

// OriginalFile returns the recorded pre-flavor state of a target
func (l *Ledger) OriginalFile(target string) (FileRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.file.OriginalFiles[target]
	return rec, ok
}

// OriginalTargets returns all recorded target paths, sorted
func (l *Ledger) OriginalTargets() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	targets := make([]string, 0, len(l.file.OriginalFiles))
	for target := range l.file.OriginalFiles {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// 🧹 Reset clears the ledger back to the no-active-flavor state. The file
// itself survives, holding the empty ledger once saved.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.file.CurrentFlavor = nil
	l.file.OriginalFiles = map[string]FileRecord{}
}
