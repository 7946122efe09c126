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

package gitignore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestSyncCreatesFile(t *testing.T) {
	ctx := testContext(t)
	syncer := New(t.TempDir())

	require.NoError(t, syncer.Sync(ctx, []string{"src/logo.png", "src/styles"}), "syncing absent ignore file")

	data, err := os.ReadFile(syncer.Path())
	require.NoError(t, err, "ignore file should be created")

	content := string(data)
	assert.Contains(t, content, Marker, "marker line present")
	assert.Contains(t, content, ".flavorize.lock\n", "ledger file listed")
	assert.Contains(t, content, ".flavorize-backup/\n", "backup root listed with trailing separator")
	assert.Contains(t, content, "src/logo.png\n", "targets listed")

	// Targets keep configuration order
	logoIdx := strings.Index(content, "src/logo.png")
	stylesIdx := strings.Index(content, "src/styles")
	assert.Less(t, logoIdx, stylesIdx, "targets written in configuration order")
}

func TestSyncIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	syncer := New(t.TempDir())

	targets := []string{"src/logo.png"}
	require.NoError(t, syncer.Sync(ctx, targets))
	first, err := os.ReadFile(syncer.Path())
	require.NoError(t, err)

	require.NoError(t, syncer.Sync(ctx, targets))
	second, err := os.ReadFile(syncer.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second), "second sync must be byte-identical")
	assert.Equal(t, 1, strings.Count(string(second), Marker), "exactly one marker occurrence")
}

func TestSyncPreservesUserContent(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	syncer := New(root)

	require.NoError(t, os.WriteFile(syncer.Path(), []byte("node_modules/\n*.log\n"), 0644))

	require.NoError(t, syncer.Sync(ctx, []string{"src/logo.png"}))
	data, err := os.ReadFile(syncer.Path())
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "node_modules/\n*.log\n"), "user content above the marker survives")
	assert.Contains(t, content, Marker)
}

func TestSyncWithoutActiveFlavorDropsTargets(t *testing.T) {
	ctx := testContext(t)
	syncer := New(t.TempDir())

	require.NoError(t, syncer.Sync(ctx, []string{"src/logo.png"}))
	require.NoError(t, syncer.Sync(ctx, nil), "sync after reset passes no targets")

	data, err := os.ReadFile(syncer.Path())
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "src/logo.png", "target entries removed after reset")
	assert.Contains(t, content, ".flavorize.lock", "ledger stays listed")
	assert.Contains(t, content, ".flavorize-backup/", "backup root stays listed")
}

func TestSyncReplacesStaleManagedBlock(t *testing.T) {
	ctx := testContext(t)
	syncer := New(t.TempDir())

	stale := "keep-me\n\n" + Marker + "\nold-entry-1\nold-entry-2\n"
	require.NoError(t, os.WriteFile(syncer.Path(), []byte(stale), 0644))

	require.NoError(t, syncer.Sync(ctx, []string{"src/new.png"}))
	data, err := os.ReadFile(syncer.Path())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "keep-me", "content above the marker survives")
	assert.NotContains(t, content, "old-entry-1", "stale managed entries are discarded")
	assert.Contains(t, content, "src/new.png", "new entries written")
}
