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

package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogFileOperation(t *testing.T) {
	tests := []struct {
		name   string
		op     FileOperation
		symbol string
	}{
		{
			name:   "applied_file",
			op:     FileOperation{Path: "src/logo.png", Action: ActionApplied},
			symbol: "✓",
		},
		{
			name:   "restored_file",
			op:     FileOperation{Path: "src/logo.png", Action: ActionRestored},
			symbol: "⟳",
		},
		{
			name:   "captured_file",
			op:     FileOperation{Path: "src/logo.png", Action: ActionCaptured},
			symbol: "•",
		},
		{
			name:   "removed_file",
			op:     FileOperation{Path: "src/logo.png", Action: ActionRemoved},
			symbol: "✗",
		},
		{
			name:   "skipped_file",
			op:     FileOperation{Path: "src/logo.png", Action: ActionSkipped},
			symbol: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, zerolog.Disabled)

			logger.LogFileOperation(tt.op)

			output := buf.String()
			assert.Contains(t, output, tt.symbol, "action symbol present")
			assert.Contains(t, output, tt.op.Path, "target path present")
			assert.Contains(t, output, string(tt.op.Action), "action label present")
		})
	}
}

func TestMessageLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.Disabled)

	logger.Success("switched")
	logger.Warning("drift detected")
	logger.Error("source missing")
	logger.Infof("%d targets", 3)

	output := buf.String()
	assert.Contains(t, output, "switched")
	assert.Contains(t, output, "drift detected")
	assert.Contains(t, output, "source missing")
	assert.Contains(t, output, "3 targets")
}
