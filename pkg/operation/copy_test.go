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

package operation_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/seqsync/pkg/fileops"
	"github.com/walteh/seqsync/pkg/operation"
	"github.com/walteh/seqsync/pkg/sequence"
	"github.com/walteh/seqsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧪 createTestEnv creates a source and an empty target directory
func createTestEnv(t *testing.T) (ctx context.Context, src, trg string, logger *zerolog.Logger) {
	tmpDir := t.TempDir()
	src = filepath.Join(tmpDir, "src")
	trg = filepath.Join(tmpDir, "trg")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(trg, 0o755))

	l := zerolog.New(zerolog.NewTestWriter(t))
	return l.WithContext(context.Background()), src, trg, &l
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("content of "+name), 0o644))
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func frames(ext string, numbers ...int) []string {
	var out []string
	for _, n := range numbers {
		out = append(out, fmt.Sprintf("tex.%04d%s", n, ext))
	}
	return out
}

func opts(mod func(*operation.Options)) operation.Options {
	o := operation.DefaultOptions()
	if mod != nil {
		mod(&o)
	}
	return o
}

func TestProcessSingleFile(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, "a.png")

	ok, err := operation.NewCopier(opts(nil), logger).ProcessPaths(ctx, filepath.Join(src, "a.png"), trg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a.png"}, listDir(t, trg))
}

func TestProcessSequence(t *testing.T) {
	tests := []struct {
		name      string
		srcFiles  []string
		mod       func(*operation.Options)
		wantFiles []string
		wantOK    bool
	}{
		{
			name:      "originals_only",
			srcFiles:  append(frames(".png", 1001, 1002, 1003, 1004, 1005), "tex.1001.tx"),
			wantFiles: frames(".png", 1001, 1002, 1003, 1004, 1005),
			wantOK:    true,
		},
		{
			name:     "with_every_sidecar",
			srcFiles: append(frames(".png", 1001, 1002, 1003, 1004, 1005), frames(".tx", 1001, 1002, 1003, 1004, 1005)...),
			mod:      func(o *operation.Options) { o.IncludeTx = true },
			wantFiles: append(frames(".png", 1001, 1002, 1003, 1004, 1005),
				frames(".tx", 1001, 1002, 1003, 1004, 1005)...),
			wantOK: true,
		},
		{
			name:      "with_one_sidecar",
			srcFiles:  append(frames(".png", 1001, 1002, 1003, 1004, 1005), "tex.1001.tx"),
			mod:       func(o *operation.Options) { o.IncludeTx = true },
			wantFiles: append(frames(".png", 1001, 1002, 1003, 1004, 1005), "tex.1001.tx"),
			wantOK:    true,
		},
		{
			name:      "only_sidecars",
			srcFiles:  append(frames(".png", 1001, 1002, 1003), frames(".tx", 1001, 1002, 1003)...),
			mod:       func(o *operation.Options) { o.IncludeTx, o.OnlyTx = true, true },
			wantFiles: frames(".tx", 1001, 1002, 1003),
			wantOK:    true,
		},
		{
			name:      "only_tx_without_include_tx_is_inert",
			srcFiles:  append(frames(".png", 1001, 1002), frames(".tx", 1001, 1002)...),
			mod:       func(o *operation.Options) { o.OnlyTx = true },
			wantFiles: []string{},
			wantOK:    true,
		},
		{
			name:      "find_sequence_off",
			srcFiles:  frames(".png", 1001, 1002, 1003),
			mod:       func(o *operation.Options) { o.FindSequence = false },
			wantFiles: frames(".png", 1001),
			wantOK:    true,
		},
		{
			name:      "sequence_with_gap",
			srcFiles:  frames(".png", 1001, 1002, 1004),
			wantFiles: frames(".png", 1001, 1002, 1004),
			wantOK:    true,
		},
		{
			name:      "ignore_glob",
			srcFiles:  frames(".png", 1001, 1002, 1003),
			mod:       func(o *operation.Options) { o.Ignore = []string{"*.1002.png"} },
			wantFiles: frames(".png", 1001, 1003),
			wantOK:    true,
		},
		{
			name:      "parallel",
			srcFiles:  append(frames(".png", 1001, 1002, 1003, 1004, 1005), frames(".tx", 1001, 1002, 1003, 1004, 1005)...),
			mod:       func(o *operation.Options) { o.IncludeTx, o.Parallelism = true, 3 },
			wantFiles: append(frames(".png", 1001, 1002, 1003, 1004, 1005), frames(".tx", 1001, 1002, 1003, 1004, 1005)...),
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, trg, logger := createTestEnv(t)
			touch(t, src, tt.srcFiles...)

			ok, err := operation.NewCopier(opts(tt.mod), logger).ProcessPaths(ctx, filepath.Join(src, "tex.1001.png"), trg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)

			want := append([]string{}, tt.wantFiles...)
			sort.Strings(want)
			assert.Equal(t, want, listDir(t, trg))
		})
	}
}

func TestProcessReportOrder(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, frames(".png", 1003, 1001, 1002)...)
	touch(t, src, "tex.1002.tx")

	var seen []operation.FileResult
	c := operation.NewCopier(opts(func(o *operation.Options) {
		o.IncludeTx = true
		o.Parallelism = 4
		o.OnFile = func(r operation.FileResult) { seen = append(seen, r) }
	}), logger)

	rep, err := c.Process(ctx, filepath.Join(src, "tex.1002.png"), trg)
	require.NoError(t, err)
	assert.True(t, rep.Success)

	var got []string
	for _, f := range rep.Files {
		got = append(got, filepath.Base(f.Source)+":"+string(f.Action))
	}
	assert.Equal(t, []string{
		"tex.1001.png:copied", "tex.1001.tx:missing",
		"tex.1002.png:copied", "tex.1002.tx:copied",
		"tex.1003.png:copied", "tex.1003.tx:missing",
	}, got)
	assert.Len(t, seen, len(rep.Files), "every result reaches OnFile")
	assert.Equal(t, 4, rep.Count(operation.ActionCopied))
}

func TestProcessMissingSidecarWarns(t *testing.T) {
	_, src, trg, _ := createTestEnv(t)
	touch(t, src, "a.png")

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ok, err := operation.NewCopier(opts(func(o *operation.Options) { o.IncludeTx = true }), &logger).
		ProcessPaths(context.Background(), filepath.Join(src, "a.png"), trg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "the source tx file does not exist")
	assert.Equal(t, []string{"a.png"}, listDir(t, trg))
}

func TestProcessPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		paths func(t *testing.T, src, trg string) (string, string)
	}{
		{
			name: "target_missing",
			paths: func(t *testing.T, src, trg string) (string, string) {
				touch(t, src, "a.png")
				return filepath.Join(src, "a.png"), filepath.Join(trg, "nope")
			},
		},
		{
			name: "target_is_file",
			paths: func(t *testing.T, src, trg string) (string, string) {
				touch(t, src, "a.png")
				touch(t, trg, "b.png")
				return filepath.Join(src, "a.png"), filepath.Join(trg, "b.png")
			},
		},
		{
			name: "source_missing",
			paths: func(t *testing.T, src, trg string) (string, string) {
				return filepath.Join(src, "a.png"), trg
			},
		},
		{
			name: "same_path",
			paths: func(t *testing.T, src, trg string) (string, string) {
				touch(t, trg, "keep.png")
				return trg, filepath.Join(trg, ".", "")
			},
		},
		{
			name: "target_inside_source",
			paths: func(t *testing.T, src, trg string) (string, string) {
				touch(t, src, "a.png")
				require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
				return src, filepath.Join(src, "nested")
			},
		},
		{
			name: "source_inside_target",
			paths: func(t *testing.T, src, trg string) (string, string) {
				touch(t, trg, "inner/a.png")
				return filepath.Join(trg, "inner"), trg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, trg, logger := createTestEnv(t)
			s, d := tt.paths(t, src, trg)
			before := snapshot(t, filepath.Dir(src))

			rep, err := operation.NewCopier(opts(nil), logger).Process(ctx, s, d)
			require.NoError(t, err)
			assert.False(t, rep.Success)
			assert.Empty(t, rep.Files)
			assert.Equal(t, before, snapshot(t, filepath.Dir(src)), "nothing may change on disk")
		})
	}
}

// snapshot maps every path below root to its modification time
func snapshot(t *testing.T, root string) map[string]time.Time {
	t.Helper()
	out := map[string]time.Time{}
	require.NoError(t, filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		out[p] = info.ModTime()
		return nil
	}))
	return out
}

func TestProcessNoOverwrite(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, "a.png")
	require.NoError(t, os.WriteFile(filepath.Join(trg, "a.png"), []byte("older"), 0o644))
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(trg, "a.png"), old, old))

	c := operation.NewCopier(opts(func(o *operation.Options) { o.ForceOverwrite = false }), logger)

	for i := 0; i < 2; i++ {
		rep, err := c.Process(ctx, filepath.Join(src, "a.png"), trg)
		require.NoError(t, err)
		assert.True(t, rep.Success)
		assert.Equal(t, 1, rep.Count(operation.ActionSkipped))
	}

	info, err := os.Stat(filepath.Join(trg, "a.png"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "existing file keeps its modification time")
	content, err := os.ReadFile(filepath.Join(trg, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "older", string(content))
}

func TestProcessIntoOwnDirectory(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		start      string
		mod        func(*operation.Options)
		wantFailed int
	}{
		{name: "single_file", files: []string{"a.png"}, start: "a.png", wantFailed: 1},
		{
			name:       "sequence_with_sidecars",
			files:      append(frames(".png", 1, 2, 3), frames(".tx", 1, 2, 3)...),
			start:      "tex.0001.png",
			mod:        func(o *operation.Options) { o.IncludeTx = true },
			wantFailed: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, _, logger := createTestEnv(t)
			touch(t, src, tt.files...)

			rep, err := operation.NewCopier(opts(tt.mod), logger).Process(ctx, filepath.Join(src, tt.start), src)
			require.NoError(t, err)
			assert.False(t, rep.Success)
			assert.Equal(t, tt.wantFailed, rep.Count(operation.ActionFailed))
			for _, f := range rep.Failed() {
				assert.ErrorIs(t, f.Err, fileops.ErrSameFile)
			}

			for _, name := range tt.files {
				content, err := os.ReadFile(filepath.Join(src, name))
				require.NoError(t, err)
				assert.Equal(t, "content of "+name, string(content), "source must keep its content")
			}
		})
	}
}

func TestProcessSidecarDirectory(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, "tex.0001.png")
	require.NoError(t, os.Mkdir(filepath.Join(src, "tex.0001.tx"), 0o755))

	c := operation.NewCopier(opts(func(o *operation.Options) { o.IncludeTx = true }), logger)
	rep, err := c.Process(ctx, filepath.Join(src, "tex.0001.png"), trg)
	require.NoError(t, err)
	assert.False(t, rep.Success)
	require.Len(t, rep.Failed(), 1)
	assert.ErrorIs(t, rep.Failed()[0].Err, fileops.ErrNotRegular)
	assert.Equal(t, []string{"tex.0001.png"}, listDir(t, trg), "no empty sidecar is left behind")
}

func TestProcessIdempotent(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, frames(".png", 1001, 1002, 1003)...)

	c := operation.NewCopier(opts(func(o *operation.Options) { o.ForceOverwrite = false }), logger)

	ok, err := c.ProcessPaths(ctx, filepath.Join(src, "tex.1001.png"), trg)
	require.NoError(t, err)
	require.True(t, ok)
	first := listDir(t, trg)

	ok, err = c.ProcessPaths(ctx, filepath.Join(src, "tex.1001.png"), trg)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, listDir(t, trg))
}

func TestProcessRoundTripInSync(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, "plate.exr")

	ok, err := operation.NewCopier(opts(nil), logger).ProcessPaths(ctx, filepath.Join(src, "plate.exr"), trg)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := status.NewReporter(logger).SyncStatus(filepath.Join(src, "plate.exr"), filepath.Join(trg, "plate.exr"), status.CompareOptions{
		IgnoreStats: []status.StatField{
			status.StatUID, status.StatGID, status.StatIno, status.StatDev,
			status.StatAtime, status.StatMtime, status.StatCtime,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, status.CodeInSync, res.Code)
}

func TestProcessFilePolicy(t *testing.T) {
	tests := []struct {
		name       string
		policy     operation.FailurePolicy
		wantCopied []string
	}{
		{
			name:       "best_effort",
			policy:     operation.BestEffort,
			wantCopied: frames(".png", 1001, 1003, 1004),
		},
		{
			name:       "fail_fast",
			policy:     operation.FailFast,
			wantCopied: frames(".png", 1001),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, trg, logger := createTestEnv(t)
			touch(t, src, frames(".png", 1001, 1002, 1003, 1004)...)
			// a directory in the way makes frame 1002 fail
			require.NoError(t, os.Mkdir(filepath.Join(trg, "tex.1002.png"), 0o755))

			rep, err := operation.NewCopier(opts(func(o *operation.Options) { o.FilePolicy = tt.policy }), logger).
				Process(ctx, filepath.Join(src, "tex.1001.png"), trg)
			require.NoError(t, err)
			assert.False(t, rep.Success)
			require.Len(t, rep.Failed(), 1)
			assert.Equal(t, "tex.1002.png", filepath.Base(rep.Failed()[0].Source))

			var copied []string
			for _, f := range rep.Files {
				if f.Action == operation.ActionCopied {
					copied = append(copied, filepath.Base(f.Source))
				}
			}
			assert.Equal(t, tt.wantCopied, copied)
		})
	}
}

func TestProcessCancelled(t *testing.T) {
	_, src, trg, logger := createTestEnv(t)
	touch(t, src, frames(".png", 1001, 1002)...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := operation.NewCopier(opts(nil), logger).ProcessPaths(ctx, filepath.Join(src, "tex.1001.png"), trg)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
	assert.Empty(t, listDir(t, trg))
}

func TestProcessFrameErrorIsFatal(t *testing.T) {
	ctx, src, trg, logger := createTestEnv(t)
	touch(t, src, "tex.1001.png", "tex.####.png")

	_, err := operation.NewCopier(opts(nil), logger).ProcessPaths(ctx, filepath.Join(src, "tex.1001.png"), trg)
	require.Error(t, err)

	var ferr *sequence.FrameError
	assert.True(t, errors.As(err, &ferr))
}

func TestProcessDirectories(t *testing.T) {
	tests := []struct {
		name      string
		mod       func(*operation.Options)
		wantFiles []string
		wantOK    bool
	}{
		{
			name:      "replace",
			wantFiles: []string{"a.txt", "sub"},
			wantOK:    true,
		},
		{
			name:      "keep_existing",
			mod:       func(o *operation.Options) { o.ForceOverwrite = false },
			wantFiles: []string{"stale.txt"},
			wantOK:    true,
		},
		{
			name:      "ignore",
			mod:       func(o *operation.Options) { o.Ignore = []string{"*.txt"} },
			wantFiles: []string{"sub"},
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, trg, logger := createTestEnv(t)
			touch(t, src, "a.txt", "sub/b.bin")
			touch(t, trg, "stale.txt")

			rep, err := operation.NewCopier(opts(tt.mod), logger).Process(ctx, src, trg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, rep.Success)
			assert.Equal(t, tt.wantFiles, listDir(t, trg))
			require.Len(t, rep.Files, 1)
			assert.Equal(t, operation.KindTree, rep.Files[0].Kind)
		})
	}
}

func TestProcessDirectoryTreePolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy operation.FailurePolicy
	}{
		{name: "fail_fast", policy: operation.FailFast},
		{name: "best_effort", policy: operation.BestEffort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, trg, logger := createTestEnv(t)
			touch(t, src, "z.txt")
			require.NoError(t, os.Symlink(filepath.Join(src, "gone"), filepath.Join(src, "a_dangling")))

			rep, err := operation.NewCopier(opts(func(o *operation.Options) { o.TreePolicy = tt.policy }), logger).Process(ctx, src, trg)
			require.NoError(t, err)
			assert.False(t, rep.Success)
			require.Len(t, rep.Failed(), 1)

			_, statErr := os.Stat(filepath.Join(trg, "z.txt"))
			if tt.policy == operation.BestEffort {
				assert.NoError(t, statErr, "best effort copies what it can")
			} else {
				assert.True(t, os.IsNotExist(statErr), "fail fast stops at the first entry")
			}
		})
	}
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/a", "tex.1001.tx"), operation.SidecarPath(filepath.Join("/a", "tex.1001.png")))
	assert.Equal(t, filepath.Join("/a.b", "plate.tx"), operation.SidecarPath(filepath.Join("/a.b", "plate")))
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := operation.ParseFailurePolicy("Fail_Fast")
	require.NoError(t, err)
	assert.Equal(t, operation.FailFast, p)
	assert.Equal(t, "fail-fast", p.String())

	_, err = operation.ParseFailurePolicy("sometimes")
	assert.Error(t, err)
}
