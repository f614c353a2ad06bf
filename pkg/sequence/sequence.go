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
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/seqsync/pkg/fileops"
	"gitlab.com/tozd/go/errors"
)

// 🎞️ Resolver finds numbered frame siblings of a file by listing its parent
// directory. It keeps no state between calls.
type Resolver struct {
	logger *zerolog.Logger
}

// 🏭 NewResolver creates a resolver logging to logger. A nil logger discards output.
func NewResolver(logger *zerolog.Logger) *Resolver {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Resolver{logger: logger}
}

// SplitExt splits a file name at its last dot. Names without a dot have an
// empty extension.
func SplitExt(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// 🔍 NamePattern returns the file's stem with all trailing digits and '#'
// placeholders removed. ok is false when the stem has no such characters or
// consists of nothing else.
//
//	C_cresta_02__MSH-BUMP.1001.png -> C_cresta_02__MSH-BUMP.
//	MJ_thisisafileseq_4568.dpx     -> MJ_thisisafileseq_
func (r *Resolver) NamePattern(path string) (string, bool) {
	pattern, ok := namePattern(filepath.Base(path))
	if !ok {
		r.logger.Debug().Str("path", path).Msg("sequence name pattern not found")
	}
	return pattern, ok
}

func namePattern(name string) (string, bool) {
	stem, _ := SplitExt(name)
	end := len(stem)
	for end > 0 && isFrameChar(stem[end-1]) {
		end--
	}
	// no frame digits, or nothing but frame digits
	if end == len(stem) || end == 0 {
		return "", false
	}
	return stem[:end], true
}

func isFrameChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '#'
}

// sameSequence reports whether name carries the given pattern and extension.
func sameSequence(name, pattern, ext string) bool {
	p, ok := namePattern(name)
	if !ok || !strings.EqualFold(p, pattern) {
		return false
	}
	_, e := SplitExt(name)
	return strings.EqualFold(e, ext)
}

// 🎞️ IsSequence reports whether at least one other regular file in the same
// directory shares path's name pattern and extension. It stops at the first
// match.
func (r *Resolver) IsSequence(path string) (bool, error) {
	pattern, ok := r.NamePattern(path)
	if !ok {
		return false, nil
	}
	_, ext := SplitExt(filepath.Base(path))
	self := fileops.RealPath(path)

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.Errorf("listing directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !sameSequence(entry.Name(), pattern, ext) {
			continue
		}
		sibling := filepath.Join(dir, entry.Name())
		if !isRegular(entry, sibling) || fileops.RealPath(sibling) == self {
			continue
		}
		r.logger.Debug().Str("path", path).Str("sibling", sibling).Msg("file belongs to a sequence")
		return true, nil
	}

	return false, nil
}

func isRegular(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	return fileops.IsFile(path)
}

// 📋 Files returns every member of path's sequence, path included, sorted by
// path. A nil slice means path is not part of a sequence. Missing frames are
// logged as a warning and do not change the result.
func (r *Resolver) Files(path string) ([]string, error) {
	isSeq, err := r.IsSequence(path)
	if err != nil {
		return nil, err
	}
	if !isSeq {
		return nil, nil
	}

	pattern, _ := namePattern(filepath.Base(path))
	_, ext := SplitExt(filepath.Base(path))

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Errorf("resolving directory of %s: %w", path, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("listing directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !sameSequence(entry.Name(), pattern, ext) {
			continue
		}
		member := filepath.Join(dir, entry.Name())
		if !isRegular(entry, member) {
			continue
		}
		files = append(files, member)
	}
	sort.Strings(files)

	complete, err := r.IsComplete(files, pattern)
	if err != nil {
		return nil, err
	}
	if !complete {
		r.logger.Warn().Str("path", path).Int("files", len(files)).Msg("missing frames on sequence")
	}

	return files, nil
}

// ✅ IsComplete reports whether files, sorted, cover every frame number
// between the first and last file. A single file is always complete.
func (r *Resolver) IsComplete(files []string, pattern string) (bool, error) {
	if len(files) == 0 {
		return false, ErrEmptySequence
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	first, err := Frame(sorted[0], pattern)
	if err != nil {
		return false, err
	}
	last, err := Frame(sorted[len(sorted)-1], pattern)
	if err != nil {
		return false, err
	}

	return len(sorted) == last-first+1, nil
}

// 🔢 Frame extracts the frame number of path: its stem with pattern removed.
func Frame(path, pattern string) (int, error) {
	stem, _ := SplitExt(filepath.Base(path))
	if len(stem) < len(pattern) || !strings.EqualFold(stem[:len(pattern)], pattern) {
		return 0, &FrameError{Path: path, Suffix: stem, Err: ErrPatternMismatch}
	}
	suffix := stem[len(pattern):]
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, &FrameError{Path: path, Suffix: suffix, Err: err}
	}
	return n, nil
}
