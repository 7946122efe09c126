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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing config fixture")
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_json",
			filename: ".flavorize.json",
			config: `{
  "version": "1",
  "flavors": {
    "brand-a": {"name": "Brand A", "description": "first brand"},
    "brand-b": {"name": "Brand B", "active": false}
  },
  "mappings": [
    {"source": "logo.png", "target": "src/logo.png"},
    {"source": "styles", "target": "src/styles", "type": "directory", "required": false, "excludeGlobs": ["**/*.map"]}
  ]
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "1", cfg.Version, "version should match")
				assert.Equal(t, "./", cfg.ProjectRoot, "projectRoot should default")
				assert.Equal(t, "flavors", cfg.FlavorsRoot, "flavorsRoot should default")
				assert.Len(t, cfg.Flavors, 2, "should have two flavors")
				assert.True(t, cfg.Flavors["brand-a"].IsActive(), "active should default to true")
				assert.False(t, cfg.Flavors["brand-b"].IsActive(), "explicit active=false should stick")
				require.Len(t, cfg.Mappings, 2, "should have two mappings")
				assert.Equal(t, TypeFile, cfg.Mappings[0].Type, "type should default to file")
				assert.True(t, cfg.Mappings[0].IsRequired(), "required should default to true")
				assert.False(t, cfg.Mappings[1].IsRequired(), "explicit required=false should stick")
				assert.Equal(t, []string{"brand-a"}, cfg.ActiveFlavorIDs(), "only brand-a is switchable")
				assert.Equal(t, []string{"src/logo.png", "src/styles"}, cfg.TargetPaths(), "targets keep config order")
			},
		},
		{
			name:     "valid_yaml",
			filename: ".flavorize.yaml",
			config: `
version: "1"
flavors:
  brand-a:
    name: Brand A
mappings:
  - source: logo.png
    target: src/logo.png
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Brand A", cfg.Flavors["brand-a"].Name, "name should match")
			},
		},
		{
			name:     "valid_hcl",
			filename: ".flavorize.hcl",
			config: `
version = "1"

flavor "brand-a" {
  name        = "Brand A"
  description = "first brand"
}

mapping {
  source = "logo.png"
  target = "src/logo.png"
}

mapping {
  source        = "styles"
  target        = "src/styles"
  type          = "directory"
  exclude_globs = ["**/*.map"]
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "first brand", cfg.Flavors["brand-a"].Description, "description should match")
				require.Len(t, cfg.Mappings, 2, "should have two mappings")
				assert.Equal(t, TypeDirectory, cfg.Mappings[1].Type, "type should match")
				assert.Equal(t, []string{"**/*.map"}, cfg.Mappings[1].ExcludeGlobs, "exclude globs should match")
			},
		},
		{
			name:        "missing_version_and_mappings_aggregated",
			filename:    ".flavorize.json",
			config:      `{"flavors": {"brand-a": {"name": ""}}, "mappings": []}`,
			wantErr:     true,
			errContains: "version is required",
		},
		{
			name:        "flavor_without_name",
			filename:    ".flavorize.json",
			config:      `{"version": "1", "flavors": {"brand-a": {"name": ""}}, "mappings": [{"source": "a", "target": "b"}]}`,
			wantErr:     true,
			errContains: "flavors.brand-a: name is required",
		},
		{
			name:        "bad_mapping_type",
			filename:    ".flavorize.json",
			config:      `{"version": "1", "flavors": {"a": {"name": "A"}}, "mappings": [{"source": "x", "target": "y", "type": "symlink"}]}`,
			wantErr:     true,
			errContains: "type must be",
		},
		{
			name:        "absolute_required_structure_path",
			filename:    ".flavorize.json",
			config:      `{"version": "1", "flavors": {"a": {"name": "A"}}, "mappings": [{"source": "x", "target": "y"}], "requiredStructure": {"files": ["/etc/passwd"]}}`,
			wantErr:     true,
			errContains: "must be relative",
		},
		{
			name:        "unknown_field_rejected",
			filename:    ".flavorize.json",
			config:      `{"version": "1", "flavours": {}}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unparseable_json",
			filename:    ".flavorize.json",
			config:      `{not json`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unsupported_extension",
			filename:    ".flavorize.toml",
			config:      `version = "1"`,
			wantErr:     true,
			errContains: "unsupported file extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			path := writeConfig(t, tt.filename, tt.config)

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "load should fail")
				assert.ErrorIs(t, err, ErrInvalidConfig, "error should wrap ErrInvalidConfig")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error message should match")
				}
				return
			}
			require.NoError(t, err, "load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := testContext(t)
	_, err := Load(ctx, filepath.Join(t.TempDir(), ".flavorize.json"))
	require.Error(t, err, "missing config should fail")
	assert.ErrorIs(t, err, ErrInvalidConfig, "error should wrap ErrInvalidConfig")
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := &Config{
		Flavors:  map[string]Flavor{"a": {}},
		Mappings: []Mapping{{Source: "", Target: "", ExcludeGlobs: []string{"["}}},
	}
	err := cfg.Validate()
	require.Error(t, err, "validate should fail")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{
		"version is required",
		"flavors.a: name is required",
		"mappings[0]: source is required",
		"mappings[0]: target is required",
		"invalid exclude glob",
	} {
		assert.Contains(t, err.Error(), want, "all problems should be reported together")
	}
}

func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".flavorize.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "version": "1",
  "flavors": {"brand-a": {"name": "Brand A"}},
  "mappings": [{"source": "logo.png", "target": "src/logo.png"}]
}`), 0644))

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err, "loading config")

	assert.Equal(t, filepath.Clean(dir), cfg.Root(), "root should be the config directory")
	assert.Equal(t, filepath.Join(dir, "flavors", "brand-a"), cfg.FlavorDir("brand-a"), "flavor dir should nest under flavorsRoot")
	assert.Equal(t, filepath.Join(dir, "src", "logo.png"), cfg.TargetPath(cfg.Mappings[0]), "target path should resolve against root")
}

func TestErrorsIsBase(t *testing.T) {
	err := errors.Errorf("%w: boom", ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrInvalidConfig, "wrapping should preserve the base error")
}
