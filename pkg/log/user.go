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
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints the final outcome of a command for people
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to out, os.Stdout when nil
func NewUserLogger(out io.Writer, log zerolog.Logger) *UserLogger {
	if out == nil {
		out = os.Stdout
	}
	return &UserLogger{log: log, out: out}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// ✅ Success prints a success message
func (u *UserLogger) Success(msg string) {
	u.printer(pterm.Success, "✅").Println(msg)
	u.log.Info().Msg(msg)
}

// ℹ️ Info prints an informational message
func (u *UserLogger) Info(msg string) {
	u.printer(pterm.Info, "ℹ️").Println(msg)
	u.log.Info().Msg(msg)
}

// ⚠️ Warning prints a warning
func (u *UserLogger) Warning(msg string) {
	u.printer(pterm.Warning, "⚠️").Println(msg)
	u.log.Warn().Msg(msg)
}

// ❌ Error prints an error with its cause
func (u *UserLogger) Error(msg string, err error) {
	if err != nil {
		u.printer(pterm.Error, "❌").Println(fmt.Sprintf("%s: %v", msg, err))
		u.log.Error().Err(err).Msg(msg)
		return
	}
	u.printer(pterm.Error, "❌").Println(msg)
	u.log.Error().Msg(msg)
}

// 🔍 LogValidation prints the result of a check
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.Success(description)
	case err != nil:
		u.Error(description, err)
	default:
		u.Warning(description)
	}
}

// 📋 Println prints a plain line
func (u *UserLogger) Println(a ...any) {
	fmt.Fprintln(u.out, a...)
}
