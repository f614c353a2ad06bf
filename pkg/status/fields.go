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
	"strings"

	"github.com/walteh/seqsync/pkg/fileops"
)

// 🏷️ StatField names one metadata field of a stat record.
type StatField string

const (
	StatMode  StatField = "st_mode"
	StatIno   StatField = "st_ino"
	StatDev   StatField = "st_dev"
	StatNlink StatField = "st_nlink"
	StatUID   StatField = "st_uid"
	StatGID   StatField = "st_gid"
	StatSize  StatField = "st_size"
	StatAtime StatField = "st_atime"
	StatMtime StatField = "st_mtime"
	StatCtime StatField = "st_ctime"
)

// AllStatFields lists every recognized field in comparison order.
var AllStatFields = []StatField{
	StatMode, StatIno, StatDev, StatNlink, StatUID,
	StatGID, StatSize, StatAtime, StatMtime, StatCtime,
}

// DefaultIgnored holds the fields that depend on where and by whom a file
// was written rather than on what it contains.
var DefaultIgnored = []StatField{StatUID, StatGID, StatAtime, StatCtime, StatIno, StatDev}

// TimeFields are the fields MostRecent accepts.
var TimeFields = []StatField{StatMtime, StatAtime, StatCtime}

type fieldSpec struct {
	description string
	value       func(*fileops.Record) any
}

var fieldSpecs = map[StatField]fieldSpec{
	StatMode:  {"File type and file mode bits", func(r *fileops.Record) any { return r.Mode }},
	StatIno:   {"inode or file index", func(r *fileops.Record) any { return r.Ino }},
	StatDev:   {"Device", func(r *fileops.Record) any { return r.Dev }},
	StatNlink: {"Number of hard links", func(r *fileops.Record) any { return r.Nlink }},
	StatUID:   {"User id of owner", func(r *fileops.Record) any { return r.Uid }},
	StatGID:   {"Group id of owner", func(r *fileops.Record) any { return r.Gid }},
	StatSize:  {"File size", func(r *fileops.Record) any { return r.Size }},
	StatAtime: {"Most recent access", func(r *fileops.Record) any { return r.Atime.UnixNano() }},
	StatMtime: {"Last modification", func(r *fileops.Record) any { return r.Mtime.UnixNano() }},
	StatCtime: {"Most recent metadata change", func(r *fileops.Record) any { return r.Ctime.UnixNano() }},
}

// Valid reports whether f is a recognized field.
func (f StatField) Valid() bool {
	_, ok := fieldSpecs[f]
	return ok
}

// Description returns the human readable label used in comparisons.
func (f StatField) Description() string {
	if spec, ok := fieldSpecs[f]; ok {
		return spec.description
	}
	return string(f)
}

// IsTime reports whether f is one of the timestamp fields.
func (f StatField) IsTime() bool {
	for _, t := range TimeFields {
		if f == t {
			return true
		}
	}
	return false
}

// 🔍 ParseStatField converts a name like "st_mtime" (case-insensitive) to a StatField.
func ParseStatField(name string) (StatField, bool) {
	f := StatField(strings.ToLower(strings.TrimSpace(name)))
	return f, f.Valid()
}

func containsField(fields []StatField, f StatField) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}
