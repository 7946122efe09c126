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

// Package backup persists pristine copies of overwritten targets in a
// directory tree mirroring their relative paths inside the project.
package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📛 DirName is the backup root directory created at the project root
const DirName = ".flavorize-backup"

// 💾 Store captures and restores pre-flavor copies of mapping targets
type Store struct {
	projectRoot string
	root        string
}

// 🏭 New creates a backup store rooted under the given project root
func New(projectRoot string) *Store {
	projectRoot = filepath.Clean(projectRoot)
	return &Store{
		projectRoot: projectRoot,
		root:        filepath.Join(projectRoot, DirName),
	}
}

// Root returns the backup root directory
func (s *Store) Root() string {
	return s.root
}

// Path returns the mirrored backup path for a target relative to the project root
func (s *Store) Path(target string) string {
	return filepath.Join(s.root, target)
}

// Exists reports whether a backup has been captured for the target
func (s *Store) Exists(target string) bool {
	_, err := os.Stat(s.Path(target))
	return err == nil
}

// 📥 Capture copies the current content of target into the backup root,
// creating intermediate directories as needed and overwriting any prior
// backup at the mirrored path. A missing target is a no-op.
func (s *Store) Capture(ctx context.Context, target string) error {
	src := filepath.Join(s.projectRoot, target)
	dst := s.Path(target)

	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Errorf("stating target %s: %w", target, err)
	}

	zerolog.Ctx(ctx).Debug().Str("target", target).Bool("dir", info.IsDir()).Msg("capturing backup")

	if err := os.RemoveAll(dst); err != nil {
		return errors.Errorf("clearing prior backup for %s: %w", target, err)
	}
	if info.IsDir() {
		return copyTree(src, dst)
	}
	return copyFile(src, dst)
}

// 📤 Restore copies the backup at the mirrored path back over the target,
// overwriting current content. A directory target is cleared first so files
// added inside it while a flavor was active do not survive. Missing backup
// is a no-op.
func (s *Store) Restore(ctx context.Context, target string) error {
	src := s.Path(target)
	dst := filepath.Join(s.projectRoot, target)

	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Errorf("stating backup for %s: %w", target, err)
	}

	zerolog.Ctx(ctx).Debug().Str("target", target).Msg("restoring backup")

	if info.IsDir() {
		if err := os.RemoveAll(dst); err != nil {
			return errors.Errorf("clearing target %s: %w", target, err)
		}
		return copyTree(src, dst)
	}
	return copyFile(src, dst)
}

// 🗑️ Discard deletes the entire backup root recursively. Idempotent.
func (s *Store) Discard(ctx context.Context) error {
	zerolog.Ctx(ctx).Debug().Str("root", s.root).Msg("discarding backup root")
	if err := os.RemoveAll(s.root); err != nil {
		return errors.Errorf("removing backup root: %w", err)
	}
	return nil
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

// copyTree copies a directory recursively
func copyTree(src, dst string) error {
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
		return copyFile(path, filepath.Join(dst, rel))
	})
}
