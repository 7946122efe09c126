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
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/flavorize/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// applyMapping copies a mapping's source from the flavor directory over its
// target, creating parent directories and overwriting existing content.
func (o *operator) applyMapping(ctx context.Context, flavorID string, m config.Mapping) error {
	src := filepath.Join(o.config.FlavorDir(flavorID), m.Source)
	dst := o.config.TargetPath(m)

	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stating source %s: %w", m.Source, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("flavor", flavorID).
		Str("source", m.Source).
		Str("target", m.Target).
		Msg("applying mapping")

	if info.IsDir() {
		return copyDir(ctx, src, dst, m.ExcludeGlobs)
	}
	return copyFile(src, dst)
}

// sourceExists reports whether a mapping's source is present under the flavor root
func (o *operator) sourceExists(flavorID string, m config.Mapping) bool {
	_, err := os.Stat(filepath.Join(o.config.FlavorDir(flavorID), m.Source))
	return err == nil
}

// copyFile copies a single file, creating parent directories as needed
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.Errorf("copying file content: %w", err)
	}

	return nil
}

// copyDir copies a directory recursively, skipping entries matched by the
// mapping's exclude globs (relative to the source directory).
func copyDir(ctx context.Context, src, dst string, excludeGlobs []string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		if d.IsDir() {
			if err := os.MkdirAll(filepath.Join(dst, rel), 0755); err != nil {
				return errors.Errorf("creating directory: %w", err)
			}
			return nil
		}
		if matchesAny(excludeGlobs, filepath.ToSlash(rel)) {
			zerolog.Ctx(ctx).Debug().Str("file", rel).Msg("file excluded by glob")
			return nil
		}
		return copyFile(path, filepath.Join(dst, rel))
	})
}

// matchesAny reports whether rel matches any of the doublestar patterns
func matchesAny(globs []string, rel string) bool {
	for _, pattern := range globs {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
