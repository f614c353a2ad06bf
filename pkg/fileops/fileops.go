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

// Package fileops holds the raw filesystem primitives used by the copy and
// status packages: path normalization, existence checks, directory creation,
// metadata preserving file copies and whole tree copy/removal.
package fileops

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔍 Normalize returns an absolute, cleaned and case-normalized version of path.
// Case folding only happens on platforms with case-insensitive paths.
func Normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if runtime.GOOS == "windows" {
		abs = strings.ToLower(abs)
	}
	return abs
}

// 🔗 RealPath resolves symlinks on top of Normalize. Unresolvable paths fall
// back to their normalized form.
func RealPath(path string) string {
	norm := Normalize(path)
	real, err := filepath.EvalSymlinks(norm)
	if err != nil {
		return norm
	}
	return Normalize(real)
}

// Exists reports whether anything exists at path, following symlinks.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path is an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// 📂 IsWithin reports whether child is parent itself or located below it.
// Both paths are normalized first.
func IsWithin(parent, child string) bool {
	parent = Normalize(parent)
	child = Normalize(child)
	if parent == child {
		return true
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// 🏗️ MakeDirs creates path and any missing parents. An existing directory is
// not an error; created reports whether anything had to be made.
func MakeDirs(path string) (created bool, err error) {
	if IsDir(path) {
		return false, nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return false, errors.Errorf("creating directory %s: %w", path, err)
	}
	return true, nil
}

var (
	// ErrSameFile is returned when source and destination are one file.
	ErrSameFile = errors.New("source and destination are the same file")
	// ErrNotRegular is returned when a file copy is asked for something
	// that is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
)

// SameFile reports whether a and b both exist and are the same file,
// following links.
func SameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// 📄 CopyFile copies src to dst keeping permission bits and access and
// modification times. When dst is an existing directory the file is placed
// inside it under its own name. The final destination path is returned.
func CopyFile(src, dst string) (string, error) {
	if IsDir(dst) {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	rec, err := Stat(src)
	if err != nil {
		return "", errors.Errorf("reading source metadata: %w", err)
	}
	if !IsFile(src) {
		return "", errors.Errorf("copying %s: %w", src, ErrNotRegular)
	}
	if SameFile(src, dst) {
		return "", errors.Errorf("copying %s to %s: %w", src, dst, ErrSameFile)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", errors.Errorf("opening source %s: %w", src, err)
	}
	defer in.Close()

	perm := os.FileMode(rec.Mode).Perm()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return "", errors.Errorf("creating destination %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", errors.Errorf("copying content to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return "", errors.Errorf("closing destination %s: %w", dst, err)
	}

	if err := copyStat(rec, dst); err != nil {
		return "", err
	}

	return dst, nil
}

// copyStat applies permission bits and times from rec onto dst.
func copyStat(rec *Record, dst string) error {
	if err := os.Chmod(dst, os.FileMode(rec.Mode).Perm()); err != nil {
		return errors.Errorf("setting mode on %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, rec.Atime, rec.Mtime); err != nil {
		return errors.Errorf("setting times on %s: %w", dst, err)
	}
	return nil
}

// 🌳 TreeOptions tunes CopyTree.
type TreeOptions struct {
	// Ignore is asked for every entry below the source root with its slash
	// separated relative path. Ignored directories are not descended into.
	Ignore func(rel string, isDir bool) bool
	// ContinueOnError keeps copying the remaining entries after a failure.
	// All failures are then returned joined together.
	ContinueOnError bool
}

// 🌳 CopyTree recursively copies the directory src to dst, which must not
// exist yet. Symlinks are followed and their targets copied.
func CopyTree(src, dst string, opts TreeOptions) error {
	if !IsDir(src) {
		return errors.Errorf("source %s is not a directory", src)
	}
	if Exists(dst) {
		return errors.Errorf("destination %s already exists", dst)
	}

	var errs []error
	if err := copyTree(src, dst, "", opts, &errs); err != nil {
		return err
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func copyTree(src, dst, rel string, opts TreeOptions, errs *[]error) error {
	rec, err := Stat(src)
	if err != nil {
		return errors.Errorf("reading directory metadata: %w", err)
	}
	if err := os.MkdirAll(dst, os.FileMode(rec.Mode).Perm()|0o700); err != nil {
		return errors.Errorf("creating directory %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Errorf("listing directory %s: %w", src, err)
	}

	fail := func(err error) error {
		if !opts.ContinueOnError {
			return err
		}
		*errs = append(*errs, err)
		return nil
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}

		info, err := os.Stat(srcPath)
		if err != nil {
			if ferr := fail(errors.Errorf("reading %s: %w", srcPath, err)); ferr != nil {
				return ferr
			}
			continue
		}

		if opts.Ignore != nil && opts.Ignore(entryRel, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			if err := copyTree(srcPath, dstPath, entryRel, opts, errs); err != nil {
				if ferr := fail(err); ferr != nil {
					return ferr
				}
			}
			continue
		}

		if _, err := CopyFile(srcPath, dstPath); err != nil {
			if ferr := fail(err); ferr != nil {
				return ferr
			}
		}
	}

	// directory times are set last, copying children touches mtime
	if err := copyStat(rec, dst); err != nil {
		return fail(err)
	}
	return nil
}

// 🗑️ RemoveTree removes path and everything below it.
func RemoveTree(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}
