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
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fieldIndent = 4  // spaces to indent field entries
	labelWidth  = 30 // width for the field label
)

// 🎯 FormatFieldMatch formats one compared field for display
func FormatFieldMatch(m FieldMatch) string {
	prefix := color.GreenString("✓")
	verdict := "match"
	if !m.Match {
		prefix = color.RedString("✗")
		verdict = color.YellowString("differs")
	}

	return fmt.Sprintf("%s%s %-*s %s",
		strings.Repeat(" ", fieldIndent),
		prefix,
		labelWidth, m.Label,
		verdict,
	)
}

// 📋 FormatComparison renders a full comparison, one field per line
func FormatComparison(cmp Comparison) string {
	lines := make([]string, 0, len(cmp))
	for _, m := range cmp {
		lines = append(lines, FormatFieldMatch(m))
	}
	return strings.Join(lines, "\n")
}

// 🔄 FormatResult renders a sync status line
func FormatResult(res Result) string {
	var prefix string
	switch res.Code {
	case CodeInSync:
		prefix = color.GreenString("✓")
	case CodeOutOfSync:
		prefix = color.YellowString("⟳")
	case CodeSamePath, CodeDifferentKind:
		prefix = color.HiBlackString("-")
	default:
		prefix = color.RedString("✗")
	}
	return fmt.Sprintf("%s %s", prefix, res.Description)
}

// 🕐 FormatMostRecent renders the answer of MostRecent
func FormatMostRecent(field StatField, path string) string {
	if path == "" {
		path = color.HiBlackString("equal")
	}
	return fmt.Sprintf("Most recent by %s: %s", field, path)
}

// 📏 FormatDirSize renders a directory size in bytes and in human units
func FormatDirSize(path string, size int64) string {
	return fmt.Sprintf("%s: %d bytes (%s)", path, size, humanize.Bytes(uint64(size)))
}
