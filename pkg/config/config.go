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
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📛 DefaultFileName is the config file looked up at the project root
const DefaultFileName = ".flavorize.json"

// 🚨 ErrInvalidConfig is returned for missing, unparseable or invalid configuration
var ErrInvalidConfig = errors.Base("invalid configuration")

// 📂 PathType distinguishes file mappings from directory mappings
type PathType string

const (
	TypeFile      PathType = "file"
	TypeDirectory PathType = "directory"
)

// 🎨 Flavor describes one named set of swappable assets
type Flavor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Active defaults to true when omitted; disabled flavors cannot be switched to
	Active *bool `json:"active,omitempty" yaml:"active,omitempty"`
}

// IsActive reports whether the flavor may be switched to
func (f Flavor) IsActive() bool {
	return f.Active == nil || *f.Active
}

// 🔀 Mapping pairs a path inside a flavor directory with a project target path
type Mapping struct {
	Source      string   `json:"source" yaml:"source"`
	Target      string   `json:"target" yaml:"target"`
	Type        PathType `json:"type,omitempty" yaml:"type,omitempty"`
	Required    *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	// ExcludeGlobs are doublestar patterns skipped when copying a directory mapping
	ExcludeGlobs []string `json:"excludeGlobs,omitempty" yaml:"excludeGlobs,omitempty"`
}

// IsRequired reports whether a missing source aborts a switch (default true)
func (m Mapping) IsRequired() bool {
	return m.Required == nil || *m.Required
}

// 🏗️ RequiredStructure lists paths every flavor directory must contain
type RequiredStructure struct {
	Files       []string `json:"files,omitempty" yaml:"files,omitempty"`
	Directories []string `json:"directories,omitempty" yaml:"directories,omitempty"`
}

// 📚 Config is the complete flavorize configuration
type Config struct {
	Version           string            `json:"version" yaml:"version"`
	ProjectRoot       string            `json:"projectRoot,omitempty" yaml:"projectRoot,omitempty"`
	FlavorsRoot       string            `json:"flavorsRoot,omitempty" yaml:"flavorsRoot,omitempty"`
	Flavors           map[string]Flavor `json:"flavors" yaml:"flavors"`
	Mappings          []Mapping         `json:"mappings" yaml:"mappings"`
	RequiredStructure RequiredStructure `json:"requiredStructure,omitempty" yaml:"requiredStructure,omitempty"`

	location string
}

// Location returns the path the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// Root returns the absolute project root the config applies to
func (cfg *Config) Root() string {
	return filepath.Clean(filepath.Join(filepath.Dir(cfg.location), cfg.ProjectRoot))
}

// FlavorDir returns the directory holding a flavor's assets
func (cfg *Config) FlavorDir(id string) string {
	return filepath.Join(cfg.Root(), cfg.FlavorsRoot, id)
}

// TargetPath returns the absolute path of a mapping's target
func (cfg *Config) TargetPath(m Mapping) string {
	return cfg.ResolvePath(m.Target)
}

// ResolvePath resolves a project-relative path against the project root
func (cfg *Config) ResolvePath(rel string) string {
	return filepath.Join(cfg.Root(), rel)
}

// Flavor looks up a flavor definition by id
func (cfg *Config) Flavor(id string) (Flavor, bool) {
	f, ok := cfg.Flavors[id]
	return f, ok
}

// ActiveFlavorIDs returns the ids of all switchable flavors, sorted
func (cfg *Config) ActiveFlavorIDs() []string {
	ids := make([]string, 0, len(cfg.Flavors))
	for id, f := range cfg.Flavors {
		if f.IsActive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// TargetPaths returns every mapping target in configuration order
func (cfg *Config) TargetPaths() []string {
	targets := make([]string, 0, len(cfg.Mappings))
	for _, m := range cfg.Mappings {
		targets = append(targets, m.Target)
	}
	return targets
}

// 🔍 Validate checks the configuration, aggregating every field-level problem
func (cfg *Config) Validate() error {
	var problems []string

	if cfg.Version == "" {
		problems = append(problems, "version is required")
	}
	if len(cfg.Flavors) == 0 {
		problems = append(problems, "at least one flavor is required")
	}

	ids := make([]string, 0, len(cfg.Flavors))
	for id := range cfg.Flavors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if cfg.Flavors[id].Name == "" {
			problems = append(problems, fmt.Sprintf("flavors.%s: name is required", id))
		}
	}

	if len(cfg.Mappings) == 0 {
		problems = append(problems, "at least one mapping is required")
	}
	for i, m := range cfg.Mappings {
		if m.Source == "" {
			problems = append(problems, fmt.Sprintf("mappings[%d]: source is required", i))
		}
		if m.Target == "" {
			problems = append(problems, fmt.Sprintf("mappings[%d]: target is required", i))
		}
		if m.Type != "" && m.Type != TypeFile && m.Type != TypeDirectory {
			problems = append(problems, fmt.Sprintf("mappings[%d]: type must be %q or %q", i, TypeFile, TypeDirectory))
		}
		for _, pattern := range m.ExcludeGlobs {
			if !doublestar.ValidatePattern(pattern) {
				problems = append(problems, fmt.Sprintf("mappings[%d]: invalid exclude glob %q", i, pattern))
			}
		}
	}

	for _, p := range append(append([]string{}, cfg.RequiredStructure.Files...), cfg.RequiredStructure.Directories...) {
		if filepath.IsAbs(p) {
			problems = append(problems, fmt.Sprintf("requiredStructure: %q must be relative to the flavor root", p))
		}
	}

	if len(problems) > 0 {
		return errors.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	// Set defaults
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "./"
	}
	if cfg.FlavorsRoot == "" {
		cfg.FlavorsRoot = "flavors"
	}
	for i := range cfg.Mappings {
		if cfg.Mappings[i].Type == "" {
			cfg.Mappings[i].Type = TypeFile
		}
		cfg.Mappings[i].Source = filepath.Clean(cfg.Mappings[i].Source)
		cfg.Mappings[i].Target = filepath.Clean(cfg.Mappings[i].Target)
	}

	return nil
}

// 📝 String returns a short description of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d flavors, %d mappings (root %s)", len(cfg.Flavors), len(cfg.Mappings), cfg.Root())
}
