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

// 📁 FileKind tells what a FileResult refers to
type FileKind string

const (
	KindOriginal FileKind = "original"
	KindSidecar  FileKind = "sidecar"
	KindTree     FileKind = "tree"
)

// 🏷️ Action is what happened to one file
type Action string

const (
	ActionCopied  Action = "copied"
	ActionSkipped Action = "skipped" // target existed and overwrite was off
	ActionMissing Action = "missing" // sidecar not found next to the source
	ActionFailed  Action = "failed"
	ActionIgnored Action = "ignored" // matched an ignore glob
)

// 📄 FileResult records one file handled during a copy
type FileResult struct {
	Source string
	Target string
	Kind   FileKind
	Action Action
	Err    error
}

// 📋 Report is the outcome of Process
type Report struct {
	// Success is false when a precondition failed or any file failed.
	Success bool
	// Files is in sorted member order, original before sidecar.
	Files []FileResult
}

// Count returns how many results carry the given action
func (r *Report) Count(action Action) int {
	n := 0
	for _, f := range r.Files {
		if f.Action == action {
			n++
		}
	}
	return n
}

// Failed returns the results that failed
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Action == ActionFailed {
			out = append(out, f)
		}
	}
	return out
}
