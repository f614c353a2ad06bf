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
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	kindWidth   = 10 // Width for file kind
	actionWidth = 10 // Width for action text
)

// 🎯 FileOperation represents one copied, skipped or failed file
type FileOperation struct {
	Path   string // File path
	Kind   string // original, sidecar or tree
	Action string // copied, skipped, missing, failed or ignored
	Err    error
}

// 🎯 Console prints file operations as aligned, colored lines
type Console struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	counts  map[string]int
}

// 🏭 NewConsole creates a console printer. Every line is also sent to zlog.
func NewConsole(console io.Writer, zlog zerolog.Logger) *Console {
	return &Console{
		zlog:    zlog,
		console: console,
		counts:  map[string]int{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the console from context, nil when absent
func FromContext(ctx context.Context) *Console {
	c, _ := ctx.Value(contextKey{}).(*Console)
	return c
}

// 🎯 NewContext adds the console to context
func NewContext(ctx context.Context, c *Console) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// 📝 formatFileOperation formats a file operation for display
func (c *Console) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Action {
	case "copied":
		symbol = '✓'
		symbolColor = color.FgGreen
	case "failed":
		symbol = '✗'
		symbolColor = color.FgRed
	case "missing":
		symbol = '?'
		symbolColor = color.FgYellow
	case "skipped":
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	var kindColor color.Attribute
	switch op.Kind {
	case "sidecar":
		kindColor = color.FgMagenta
	case "tree":
		kindColor = color.FgCyan
	default:
		kindColor = color.FgBlue
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", actionWidth, op.Action))
}

// 📝 LogFileOperation prints a file operation
func (c *Console) LogFileOperation(op FileOperation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[op.Action]++
	fmt.Fprintln(c.console, c.formatFileOperation(op))

	ev := c.zlog.Debug()
	if op.Err != nil {
		ev = c.zlog.Error().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("kind", op.Kind).
		Str("action", op.Action).
		Msg("file operation")
}

// 📝 Header prints the source and target of an operation
func (c *Console) Header(src, trg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts = map[string]int{}

	fmt.Fprintf(c.console, "\n%s %s\n", color.New(color.Bold, color.FgCyan).Sprint("seqsync"), color.New(color.Faint).Sprint("• "+src))
	fmt.Fprintf(c.console, "%s %s\n\n", color.New(color.FgMagenta).Sprint("◆"), color.New(color.Bold).Sprint(trg))
}

// 📊 Summary returns how many operations were printed per action since the
// last Header
func (c *Console) Summary() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// 📊 PrintSummary prints the per-action counts since the last Header on one
// line, actions sorted by name
func (c *Console) PrintSummary() {
	counts := c.Summary()
	actions := make([]string, 0, len(counts))
	for action := range counts {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		parts = append(parts, fmt.Sprintf("%d %s", counts[action], action))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing processed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.console, "\n%s%s\n", strings.Repeat(" ", fileIndent), color.New(color.Faint).Sprint(strings.Join(parts, ", ")))
}
