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

package status

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/seqsync/pkg/fileops"
	"gitlab.com/tozd/go/errors"
)

// 📊 Code classifies the relationship between two paths
type Code int

const (
	CodeUnknown      Code = iota
	CodeInSync            // Same kind, every compared field equal
	CodeOutOfSync         // Same kind, at least one field differs
	CodeBothMissing       // Neither path exists
	CodeSourceMissing     // Only the target exists
	CodeTargetMissing     // Only the source exists
	CodeDifferentKind     // One file, one directory
	CodeSamePath          // Both arguments point at the same location
)

// String returns the description of the code
func (c Code) String() string {
	switch c {
	case CodeInSync:
		return "In sync"
	case CodeOutOfSync:
		return "Out of sync"
	case CodeBothMissing:
		return "Both paths do not exist"
	case CodeSourceMissing:
		return "Source path does not exist"
	case CodeTargetMissing:
		return "Target path does not exist"
	case CodeDifferentKind:
		return "Different kind of paths"
	case CodeSamePath:
		return "Source and Target are exactly the same path"
	default:
		return "unknown"
	}
}

// 📄 Result is the outcome of SyncStatus.
type Result struct {
	Code        Code
	Description string
}

func newResult(c Code) Result {
	return Result{Code: c, Description: c.String()}
}

// ErrUnsupportedKind is returned when an existing path is neither a regular
// file nor a directory (devices, sockets, pipes).
var ErrUnsupportedKind = errors.New("unsupported kind of path")

// 🔧 CompareOptions controls which fields take part in a comparison.
type CompareOptions struct {
	// IgnoreName skips comparing base names.
	IgnoreName bool
	// IgnoreStats lists fields left out. A nil slice means DefaultIgnored,
	// an empty non-nil slice compares every field.
	IgnoreStats []StatField
}

func (o CompareOptions) ignored() []StatField {
	if o.IgnoreStats == nil {
		return DefaultIgnored
	}
	return o.IgnoreStats
}

// ⚖️ FieldMatch is one line of a comparison.
type FieldMatch struct {
	Label string    // "Name", a field description, or "Dir size"
	Field StatField // empty for Name and Dir size
	Match bool
}

// Comparison is the ordered list of compared fields.
type Comparison []FieldMatch

// InSync reports whether every compared field matched.
func (c Comparison) InSync() bool {
	for _, m := range c {
		if !m.Match {
			return false
		}
	}
	return true
}

// 🔎 Reporter compares two paths without touching them.
type Reporter struct {
	logger *zerolog.Logger
}

// 🏭 NewReporter creates a reporter. A nil logger discards output.
func NewReporter(logger *zerolog.Logger) *Reporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Reporter{logger: logger}
}

type pathKind int

const (
	kindMissing pathKind = iota
	kindFile
	kindDir
	kindOther
)

func kindOf(path string) pathKind {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return kindMissing
	case info.IsDir():
		return kindDir
	case info.Mode().IsRegular():
		return kindFile
	default:
		return kindOther
	}
}

// 🔄 SyncStatus classifies src against trg.
func (r *Reporter) SyncStatus(src, trg string, opts CompareOptions) (Result, error) {
	log := r.logger.With().Str("source", src).Str("target", trg).Logger()

	srcKind, trgKind := kindOf(src), kindOf(trg)

	var res Result
	switch {
	case srcKind != kindMissing && trgKind != kindMissing:
		if srcKind == kindOther || trgKind == kindOther {
			log.Error().Msg("no status comparison for this kind of path")
			return Result{}, errors.Errorf("comparing %s and %s: %w", src, trg, ErrUnsupportedKind)
		}
		if srcKind != trgKind {
			res = newResult(CodeDifferentKind)
			break
		}
		if fileops.Normalize(src) == fileops.Normalize(trg) {
			res = newResult(CodeSamePath)
			break
		}
		cmp, err := r.CompareStats(src, trg, opts)
		if err != nil {
			return Result{}, err
		}
		dict := zerolog.Dict()
		for _, m := range cmp {
			dict = dict.Bool(m.Label, m.Match)
		}
		log = log.With().Dict("matches", dict).Logger()
		if cmp.InSync() {
			res = newResult(CodeInSync)
		} else {
			res = newResult(CodeOutOfSync)
		}
	case srcKind == kindMissing && trgKind == kindMissing:
		res = newResult(CodeBothMissing)
	case srcKind == kindMissing:
		res = newResult(CodeSourceMissing)
	default:
		res = newResult(CodeTargetMissing)
	}

	log.Debug().Int("code", int(res.Code)).Msg(res.Description)
	return res, nil
}

// ⚖️ CompareStats compares names, the non-ignored stat fields and, for two
// directories, their recursive sizes.
func (r *Reporter) CompareStats(src, trg string, opts CompareOptions) (Comparison, error) {
	srcRec, err := fileops.Stat(src)
	if err != nil {
		return nil, errors.Errorf("reading source metadata: %w", err)
	}
	trgRec, err := fileops.Stat(trg)
	if err != nil {
		return nil, errors.Errorf("reading target metadata: %w", err)
	}

	var cmp Comparison
	if !opts.IgnoreName {
		cmp = append(cmp, FieldMatch{
			Label: "Name",
			Match: filepath.Base(src) == filepath.Base(trg),
		})
	}

	ignored := opts.ignored()
	for _, f := range AllStatFields {
		if containsField(ignored, f) {
			continue
		}
		spec := fieldSpecs[f]
		cmp = append(cmp, FieldMatch{
			Label: spec.description,
			Field: f,
			Match: spec.value(srcRec) == spec.value(trgRec),
		})
	}

	if srcRec.IsDir && trgRec.IsDir {
		srcSize, _, err := r.DirSize(src)
		if err != nil {
			return nil, err
		}
		trgSize, _, err := r.DirSize(trg)
		if err != nil {
			return nil, err
		}
		cmp = append(cmp, FieldMatch{Label: "Dir size", Match: srcSize == trgSize})
	}

	return cmp, nil
}

// 🕐 MostRecent returns whichever path has the greater value for the given
// time field. It returns "" when both are equal, and also when field is not
// one of TimeFields: an unknown field is logged, not treated as an error.
func (r *Reporter) MostRecent(src, trg string, field StatField) (string, error) {
	if !field.IsTime() {
		r.logger.Debug().Str("field", string(field)).Interface("valid", TimeFields).Msg("invalid stat field for most recent")
		return "", nil
	}

	srcRec, err := fileops.Stat(src)
	if err != nil {
		return "", errors.Errorf("reading source metadata: %w", err)
	}
	trgRec, err := fileops.Stat(trg)
	if err != nil {
		return "", errors.Errorf("reading target metadata: %w", err)
	}

	value := fieldSpecs[field].value
	srcVal, trgVal := value(srcRec).(int64), value(trgRec).(int64)

	switch {
	case trgVal > srcVal:
		return trg, nil
	case trgVal < srcVal:
		return src, nil
	default:
		r.logger.Debug().Str("field", string(field)).Str("source", src).Str("target", trg).Msg("both paths have equal times")
		return "", nil
	}
}

// 📏 DirSize sums the sizes of all files below path. ok is false when path
// is not a directory.
func (r *Reporter) DirSize(path string) (size int64, ok bool, err error) {
	if !fileops.IsDir(path) {
		return 0, false, nil
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		// links to directories are listed but not descended into
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, false, errors.Errorf("measuring %s: %w", path, err)
	}

	return size, true, nil
}
