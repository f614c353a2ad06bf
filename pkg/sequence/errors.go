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
package sequence

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrEmptySequence is returned when completeness is asked for no files.
	ErrEmptySequence = errors.New("empty sequence")
	// ErrPatternMismatch means a file does not start with the sequence name pattern.
	ErrPatternMismatch = errors.New("file does not match sequence name pattern")
)

// 🔢 FrameError reports a sequence member whose frame suffix is not a number,
// e.g. a "####" placeholder file sitting next to rendered frames.
type FrameError struct {
	Path   string
	Suffix string
	Err    error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("parsing frame number %q of %s: %v", e.Suffix, e.Path, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
