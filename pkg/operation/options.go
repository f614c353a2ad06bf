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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🚦 FailurePolicy decides what happens after one file fails to copy
type FailurePolicy int

const (
	// BestEffort keeps going and reports the failure at the end
	BestEffort FailurePolicy = iota
	// FailFast stops at the first failure
	FailFast
)

func (p FailurePolicy) String() string {
	switch p {
	case BestEffort:
		return "best-effort"
	case FailFast:
		return "fail-fast"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy accepts "best-effort" or "fail-fast" (case-insensitive,
// underscores allowed).
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "best-effort":
		return BestEffort, nil
	case "fail-fast":
		return FailFast, nil
	}
	return 0, errors.Errorf("unknown failure policy %q", s)
}

// 🔧 Options controls a Copier
type Options struct {
	// ForceOverwrite replaces existing target files, and whole target
	// directories when the source is a directory.
	ForceOverwrite bool
	// IncludeTx also copies the ".tx" sidecar next to every copied file.
	IncludeTx bool
	// OnlyTx copies sidecars only. It does nothing unless IncludeTx is set.
	OnlyTx bool
	// FindSequence expands a frame file into its whole sequence.
	FindSequence bool

	// FilePolicy applies to single files and sequence members.
	FilePolicy FailurePolicy
	// TreePolicy applies to entries of a copied directory tree.
	TreePolicy FailurePolicy
	// Parallelism is the number of files copied at once. Values below 2
	// copy sequentially.
	Parallelism int
	// Ignore holds doublestar globs. Sequence members are matched by base
	// name, tree entries by relative path and by base name.
	Ignore []string
	// OnFile is called once per file result. With Parallelism above 1 it
	// is called from several goroutines, one call at a time.
	OnFile func(FileResult)
}

// 🏭 DefaultOptions returns the options the CLI starts from
func DefaultOptions() Options {
	return Options{
		ForceOverwrite: true,
		FindSequence:   true,
		FilePolicy:     BestEffort,
		TreePolicy:     FailFast,
		Parallelism:    1,
	}
}
