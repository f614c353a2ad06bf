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

package operation

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/seqsync/pkg/fileops"
	"github.com/walteh/seqsync/pkg/sequence"
	"gitlab.com/tozd/go/errors"
)

// SidecarExt is the extension of the mip-mapped texture written next to a frame
const SidecarExt = ".tx"

// 📦 Copier copies files, sequences and directory trees into a target directory
type Copier struct {
	opts     Options
	logger   *zerolog.Logger
	resolver *sequence.Resolver
	runner   *runner

	mu sync.Mutex // serializes OnFile
}

// 🏭 NewCopier creates a copier. A nil logger discards output.
func NewCopier(opts Options, logger *zerolog.Logger) *Copier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Copier{
		opts:     opts,
		logger:   logger,
		resolver: sequence.NewResolver(logger),
		runner:   newRunner(logger, opts.Parallelism),
	}
}

// 🚀 ProcessPaths copies src into trg and reports whether everything went
// well. See Process.
func (c *Copier) ProcessPaths(ctx context.Context, src, trg string) (bool, error) {
	rep, err := c.Process(ctx, src, trg)
	if err != nil {
		return false, err
	}
	return rep.Success, nil
}

// 🚀 Process copies src into trg.
//
// trg must be an existing directory. A directory src replaces trg
// (only when ForceOverwrite is set). A file src is copied into trg, with its
// whole sequence when FindSequence is set. Failed preconditions are logged
// and give an unsuccessful report with a nil error. Errors are returned only
// for a sequence that cannot be enumerated and for a cancelled ctx.
func (c *Copier) Process(ctx context.Context, src, trg string) (*Report, error) {
	log := c.logger.With().Str("source", src).Str("target", trg).Logger()
	rep := &Report{}

	if !fileops.IsDir(trg) {
		log.Warn().Msg("skipped: target path must be a directory")
		return rep, nil
	}
	if !fileops.Exists(src) {
		log.Warn().Msg("skipped: source path does not exist")
		return rep, nil
	}

	srcNorm, trgNorm := fileops.Normalize(src), fileops.Normalize(trg)
	if srcNorm == trgNorm {
		log.Warn().Msg("skipped: source and target are the same")
		return rep, nil
	}

	if fileops.IsDir(src) {
		if fileops.IsWithin(srcNorm, trgNorm) || fileops.IsWithin(trgNorm, srcNorm) {
			log.Warn().Msg("skipped: source and target directories are nested")
			return rep, nil
		}
		if err := ctx.Err(); err != nil {
			return rep, errors.Errorf("operation cancelled: %w", err)
		}
		c.processDirs(src, trg, rep)
		return rep, nil
	}

	return rep, c.processFiles(ctx, src, trg, rep)
}

// 📁 processDirs replaces trg with a copy of src
func (c *Copier) processDirs(src, trg string, rep *Report) {
	log := c.logger.With().Str("source", src).Str("target", trg).Logger()
	res := FileResult{Source: src, Target: trg, Kind: KindTree}

	if fileops.Exists(trg) {
		if !c.opts.ForceOverwrite {
			log.Warn().Msg("target already existed and force overwrite was off")
			res.Action = ActionSkipped
			rep.Success = true
			c.record(rep, res)
			return
		}
		if err := fileops.RemoveTree(trg); err != nil {
			log.Error().Err(err).Msg("system error while processing directories")
			res.Action, res.Err = ActionFailed, err
			c.record(rep, res)
			return
		}
	}

	err := fileops.CopyTree(src, trg, fileops.TreeOptions{
		Ignore:          c.treeIgnore,
		ContinueOnError: c.opts.TreePolicy == BestEffort,
	})
	if err != nil {
		log.Error().Err(err).Msg("system error while processing directories")
		res.Action, res.Err = ActionFailed, err
		c.record(rep, res)
		return
	}

	log.Debug().Msg("finished copying source to target")
	res.Action = ActionCopied
	rep.Success = true
	c.record(rep, res)
}

// 🎞️ processFiles copies src, or its whole sequence, into trg
func (c *Copier) processFiles(ctx context.Context, src, trg string, rep *Report) error {
	if created, err := fileops.MakeDirs(trg); err != nil {
		c.logger.Error().Err(err).Str("target", trg).Msg("creating target directory")
		return nil
	} else if created {
		c.logger.Debug().Str("target", trg).Msg("created target directory")
	}

	members := []string{src}
	if c.opts.FindSequence {
		files, err := c.resolver.Files(src)
		if err != nil {
			return errors.Errorf("resolving sequence of %s: %w", src, err)
		}
		if files != nil {
			members = files
			c.logger.Debug().Str("source", src).Int("members", len(files)).Msg("copying sequence")
		}
	}

	if c.opts.OnlyTx && !c.opts.IncludeTx {
		c.logger.Warn().Msg("only tx was set without include tx, nothing will be processed")
		rep.Success = true
		return nil
	}

	slots := make([][]FileResult, len(members))
	tasks := make([]task, len(members))
	for i, member := range members {
		i, member := i, member
		tasks[i] = func(context.Context) error {
			slots[i] = c.processMember(member, trg)
			if c.opts.FilePolicy == FailFast && anyFailed(slots[i]) {
				return errStop
			}
			return nil
		}
	}

	runErr := c.runner.Run(ctx, tasks)

	rep.Success = runErr == nil
	for _, results := range slots {
		if anyFailed(results) {
			rep.Success = false
		}
		rep.Files = append(rep.Files, results...)
	}

	return runErr
}

// processMember copies one file and its sidecar
func (c *Copier) processMember(member, trg string) []FileResult {
	if c.ignored(filepath.Base(member)) {
		res := FileResult{Source: member, Kind: KindOriginal, Action: ActionIgnored}
		c.notify(res)
		return []FileResult{res}
	}

	var results []FileResult
	if !c.opts.OnlyTx {
		results = append(results, c.processOriginal(member, trg))
	}
	if c.opts.IncludeTx {
		results = append(results, c.processSidecar(member, trg))
	}
	return results
}

// 🖼️ processOriginal copies a single file into trg
func (c *Copier) processOriginal(src, trg string) FileResult {
	return c.copyInto(src, trg, KindOriginal)
}

// 🧩 processSidecar copies the ".tx" file next to original into trg. A
// missing sidecar is logged and does not count as a failure.
func (c *Copier) processSidecar(original, trg string) FileResult {
	tx := SidecarPath(original)
	if !fileops.Exists(tx) {
		c.logger.Warn().Str("file", tx).Msg("the source tx file does not exist")
		res := FileResult{Source: tx, Target: filepath.Join(trg, filepath.Base(tx)), Kind: KindSidecar, Action: ActionMissing}
		c.notify(res)
		return res
	}
	return c.copyInto(tx, trg, KindSidecar)
}

func (c *Copier) copyInto(src, trg string, kind FileKind) FileResult {
	dst := filepath.Join(trg, filepath.Base(src))
	res := FileResult{Source: src, Target: dst, Kind: kind}
	log := c.logger.With().Str("source", src).Str("target", dst).Str("kind", string(kind)).Logger()

	switch {
	case fileops.IsDir(dst):
		res.Action, res.Err = ActionFailed, errors.Errorf("copying %s: %s is a directory", src, dst)
		log.Error().Err(res.Err).Msg("system error while processing source file")
	case fileops.Exists(dst) && !c.opts.ForceOverwrite:
		log.Debug().Msg("file already existed and force overwrite was off")
		res.Action = ActionSkipped
	case fileops.SameFile(src, dst):
		res.Action, res.Err = ActionFailed, errors.Errorf("copying %s: %w", src, fileops.ErrSameFile)
		log.Error().Err(res.Err).Msg("system error while processing source file")
	default:
		if _, err := fileops.CopyFile(src, dst); err != nil {
			log.Error().Err(err).Msg("system error while processing source file")
			res.Action, res.Err = ActionFailed, err
		} else {
			log.Debug().Msg("copied")
			res.Action = ActionCopied
		}
	}

	c.notify(res)
	return res
}

// SidecarPath returns path with its last extension replaced by ".tx"
func SidecarPath(path string) string {
	stem, _ := sequence.SplitExt(filepath.Base(path))
	return filepath.Join(filepath.Dir(path), stem+SidecarExt)
}

// 🔍 ignored checks name against the ignore globs
func (c *Copier) ignored(name string) bool {
	for _, pattern := range c.opts.Ignore {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(name))
		if err != nil {
			c.logger.Debug().Str("pattern", pattern).Str("path", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			c.logger.Debug().Str("file", name).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}

func (c *Copier) treeIgnore(rel string, _ bool) bool {
	return c.ignored(rel) || c.ignored(filepath.Base(rel))
}

func (c *Copier) record(rep *Report, res FileResult) {
	rep.Files = append(rep.Files, res)
	c.notify(res)
}

func (c *Copier) notify(res FileResult) {
	if c.opts.OnFile == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.OnFile(res)
}

func anyFailed(results []FileResult) bool {
	for _, r := range results {
		if r.Action == ActionFailed {
			return true
		}
	}
	return false
}
