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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Load loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON (the default format)
// - .yaml or .yml for YAML
// - .hcl for HCL
func Load(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading config file: %w", ErrInvalidConfig, err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = loadJSON(data)
	case ".yaml", ".yml":
		cfg, err = loadYAML(data)
	case ".hcl":
		cfg, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("%w: unsupported file extension %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, err
	}

	cfg.location = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("%w: parsing JSON: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("%w: parsing YAML: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// hclConfig mirrors Config with flavors and mappings as labeled blocks
type hclConfig struct {
	Version     string        `hcl:"version"`
	ProjectRoot *string       `hcl:"project_root,optional"`
	FlavorsRoot *string       `hcl:"flavors_root,optional"`
	Flavors     []hclFlavor   `hcl:"flavor,block"`
	Mappings    []hclMapping  `hcl:"mapping,block"`
	Required    *hclStructure `hcl:"required_structure,block"`
}

type hclFlavor struct {
	ID          string  `hcl:"id,label"`
	Name        string  `hcl:"name"`
	Description *string `hcl:"description,optional"`
	Active      *bool   `hcl:"active,optional"`
}

type hclMapping struct {
	Source       string   `hcl:"source"`
	Target       string   `hcl:"target"`
	Type         *string  `hcl:"type,optional"`
	Required     *bool    `hcl:"required,optional"`
	Description  *string  `hcl:"description,optional"`
	ExcludeGlobs []string `hcl:"exclude_globs,optional"`
}

type hclStructure struct {
	Files       []string `hcl:"files,optional"`
	Directories []string `hcl:"directories,optional"`
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("%w: parsing HCL: %s", ErrInvalidConfig, diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("%w: decoding HCL: %s", ErrInvalidConfig, diags.Error())
	}

	cfg := &Config{
		Version:  raw.Version,
		Flavors:  make(map[string]Flavor, len(raw.Flavors)),
		Mappings: make([]Mapping, 0, len(raw.Mappings)),
	}
	if raw.ProjectRoot != nil {
		cfg.ProjectRoot = *raw.ProjectRoot
	}
	if raw.FlavorsRoot != nil {
		cfg.FlavorsRoot = *raw.FlavorsRoot
	}
	for _, f := range raw.Flavors {
		flavor := Flavor{Name: f.Name, Active: f.Active}
		if f.Description != nil {
			flavor.Description = *f.Description
		}
		cfg.Flavors[f.ID] = flavor
	}
	for _, m := range raw.Mappings {
		mapping := Mapping{
			Source:       m.Source,
			Target:       m.Target,
			Required:     m.Required,
			ExcludeGlobs: m.ExcludeGlobs,
		}
		if m.Type != nil {
			mapping.Type = PathType(*m.Type)
		}
		if m.Description != nil {
			mapping.Description = *m.Description
		}
		cfg.Mappings = append(cfg.Mappings, mapping)
	}
	if raw.Required != nil {
		cfg.RequiredStructure = RequiredStructure{
			Files:       raw.Required.Files,
			Directories: raw.Required.Directories,
		}
	}

	return cfg, nil
}
