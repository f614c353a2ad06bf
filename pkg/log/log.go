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
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures Setup
type Options struct {
	// Verbose sends debug output to Console. Otherwise only warnings and
	// errors reach it.
	Verbose bool
	// Console receives human readable lines. Defaults to os.Stdout when
	// Verbose, os.Stderr otherwise.
	Console io.Writer
	// FileDir enables the daily log file inside this directory, created
	// when missing. Empty disables it.
	FileDir string
	// Now is the clock used to name log files. Defaults to time.Now.
	Now func() time.Time
}

// 🏭 Setup builds the process logger. The returned closer flushes and closes
// the log file and must be called before exit.
func Setup(opts Options) (*zerolog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
		if opts.Verbose {
			console = os.Stdout
		}
	}

	consoleLevel := zerolog.WarnLevel
	if opts.Verbose {
		consoleLevel = zerolog.DebugLevel
	}

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime}},
			Level:  consoleLevel,
		},
	}

	var closer io.Closer = nopCloser{}
	if opts.FileDir != "" {
		f, err := NewDailyFile(opts.FileDir, opts.Now)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		closer = f
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	return &logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FileName returns the log file name for the day of t
func FileName(t time.Time) string {
	return "sync_" + t.Format("02-01-2006") + ".log"
}

// 📅 DailyFile appends to sync_DD-MM-YYYY.log in a directory and moves to a
// new file when the date changes
type DailyFile struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	name string
	file *os.File
}

// 🏭 NewDailyFile creates dir when needed and opens today's file
func NewDailyFile(dir string, now func() time.Time) (*DailyFile, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Errorf("creating log directory: %w", err)
	}

	d := &DailyFile{dir: dir, now: now}
	if err := d.rotate(FileName(now())); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the file currently written to
func (d *DailyFile) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return filepath.Join(d.dir, d.name)
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name := FileName(d.now()); name != d.name {
		if err := d.rotate(name); err != nil {
			return 0, err
		}
	}
	return d.file.Write(p)
}

// rotate must be called with mu held or before d is shared
func (d *DailyFile) rotate(name string) error {
	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Errorf("opening log file: %w", err)
	}
	if d.file != nil {
		_ = d.file.Close()
	}
	d.file, d.name = f, name
	return nil
}

// Close closes the current file
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	if err != nil {
		return errors.Errorf("closing log file: %w", err)
	}
	return nil
}
