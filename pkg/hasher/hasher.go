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

// Package hasher computes content fingerprints used for drift detection.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 🔢 Hash returns the sha256 hex digest of the file at path.
// ok is false when the path does not exist or is a directory; no error is
// returned in either case.
func Hash(path string) (digest string, ok bool, err error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Errorf("stating %s: %w", path, err)
	}
	if info.IsDir() {
		return "", false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", false, errors.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), true, nil
}

// 🔢 Sum returns the sha256 hex digest of in-memory content
func Sum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
