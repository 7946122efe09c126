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

package main

import (
	"context"
	"os"
)

func main() {
	ctx := context.Background()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		// RunE already printed the user-facing message; the non-zero exit is
		// the CLI's decision, never the engine's.
		os.Exit(1)
	}
}
