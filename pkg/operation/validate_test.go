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

package operation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structuredConfig = `{
  "version": "1",
  "flavors": {
    "complete": {"name": "Complete"},
    "incomplete": {"name": "Incomplete"},
    "retired": {"name": "Retired", "active": false}
  },
  "mappings": [
    {"source": "logo.png", "target": "src/logo.png"}
  ],
  "requiredStructure": {
    "files": ["logo.png", "config.json"],
    "directories": ["assets"]
  }
}`

// 🧪 TestValidateAggregatesAllProblems: one report entry listing every
// missing piece, never just the first
func TestValidateAggregatesAllProblems(t *testing.T) {
	ctx, root, op, _ := createTestEnv(t, structuredConfig)

	// complete has everything
	write(t, filepath.Join(root, "flavors", "complete", "logo.png"), "logo")
	write(t, filepath.Join(root, "flavors", "complete", "config.json"), "{}")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "flavors", "complete", "assets"), 0755))

	// incomplete exists but is missing both required files and the directory
	require.NoError(t, os.MkdirAll(filepath.Join(root, "flavors", "incomplete"), 0755))

	report, err := op.Validate(ctx)
	require.NoError(t, err, "validation itself should not fail")
	assert.False(t, report.OK())

	assert.NotContains(t, report.Problems, "complete", "complete flavor has no problems")
	assert.NotContains(t, report.Problems, "retired", "disabled flavors are not validated")

	problems := report.Problems["incomplete"]
	require.Len(t, problems, 4, "every missing piece is reported at once")

	joined := ""
	for _, p := range problems {
		joined += p + "\n"
	}
	assert.Contains(t, joined, "logo.png")
	assert.Contains(t, joined, "config.json")
	assert.Contains(t, joined, "assets")
	assert.Contains(t, joined, "mapping source", "missing mapping sources reported too")
}

// 🧪 TestValidateMissingFlavorDirectory short-circuits to a single problem
func TestValidateMissingFlavorDirectory(t *testing.T) {
	ctx, root, op, _ := createTestEnv(t, structuredConfig)

	write(t, filepath.Join(root, "flavors", "complete", "logo.png"), "logo")
	write(t, filepath.Join(root, "flavors", "complete", "config.json"), "{}")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "flavors", "complete", "assets"), 0755))
	// incomplete's directory does not exist at all

	report, err := op.Validate(ctx)
	require.NoError(t, err)

	problems := report.Problems["incomplete"]
	require.Len(t, problems, 1, "a missing flavor directory is the only problem reported")
	assert.Contains(t, problems[0], "does not exist")
}

// 🧪 TestValidateAllComplete returns a clean report
func TestValidateAllComplete(t *testing.T) {
	ctx, root, op, _ := createTestEnv(t, structuredConfig)

	for _, flavor := range []string{"complete", "incomplete"} {
		write(t, filepath.Join(root, "flavors", flavor, "logo.png"), "logo")
		write(t, filepath.Join(root, "flavors", flavor, "config.json"), "{}")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "flavors", flavor, "assets"), 0755))
	}

	report, err := op.Validate(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK(), "no problems when every flavor is complete")
	assert.Empty(t, report.Problems)
}
