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

package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/walteh/seqsync/cmd/seqsync/opts"
	"github.com/walteh/seqsync/pkg/log"
	"github.com/walteh/seqsync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCopyCmd creates the copy command
func NewCopyCmd(ro *opts.RootOpts) *cobra.Command {
	o := operation.DefaultOptions()
	var (
		policy   string
		parallel int
		ignore   []string
	)

	cmd := &cobra.Command{
		Use:   "copy SRC TRG",
		Short: "Copy a file, its frame sequence or a directory into TRG",
		Long: `Copy copies SRC into the existing directory TRG.
It will:
1. Check that TRG is a directory, SRC exists and both differ
2. Replace TRG with a copy of SRC when SRC is a directory
3. Otherwise copy SRC, or every frame of its sequence, with optional .tx sidecars
4. Print whether everything was copied`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, trg := args[0], args[1]

			if err := applyCopyDefaults(cmd, ro, &o, policy, parallel, ignore); err != nil {
				return err
			}

			logger := zerolog.Ctx(ctx).With().Str("command", "copy").Logger()

			console := log.FromContext(ctx)
			if console == nil {
				console = ro.Console
			}

			bar := newProgress(ro)
			o.OnFile = func(r operation.FileResult) {
				if bar != nil {
					_ = bar.Add(1)
					return
				}
				if !ro.Log {
					console.LogFileOperation(log.FileOperation{
						Path:   r.Source,
						Kind:   string(r.Kind),
						Action: string(r.Action),
						Err:    r.Err,
					})
				}
			}

			lines := bar == nil && !ro.Log
			if lines {
				console.Header(src, trg)
			}

			rep, err := operation.NewCopier(o, &logger).Process(ctx, src, trg)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return errors.Errorf("copying %s: %w", src, err)
			}
			if lines {
				console.PrintSummary()
			}

			reportCopy(ro, o, rep, src, trg)
			return nil
		},
	}

	fs := cmd.Flags()
	opts.BoolFlag(fs, &o.ForceOverwrite, "force_overwrite", true, true,
		"replace existing files, and TRG itself when SRC is a directory")
	opts.BoolFlag(fs, &o.IncludeTx, "include_tx", false, false,
		"also copy the .tx file next to every copied file (use --include_tx=true)")
	opts.BoolFlag(fs, &o.OnlyTx, "only_tx", false, false,
		"copy .tx files only, requires --include_tx=true (use --only_tx=true)")
	opts.BoolFlag(fs, &o.FindSequence, "find_sequence", true, true,
		"copy the whole frame sequence SRC belongs to")
	fs.IntVar(&parallel, "parallel", 0, "number of files copied at once (default from config, else 1)")
	fs.StringSliceVar(&ignore, "ignore", nil, "glob of files to skip, may be repeated")
	fs.StringVar(&policy, "policy", "", "failure policy: best-effort or fail-fast")

	return cmd
}

// applyCopyDefaults layers config values under flags that were not given
func applyCopyDefaults(cmd *cobra.Command, ro *opts.RootOpts, o *operation.Options, policy string, parallel int, ignore []string) error {
	if ro.Config != nil && ro.Config.Copy != nil {
		defaults := ro.Config.Copy
		o.Ignore = append(o.Ignore, defaults.Ignore...)
		if !cmd.Flags().Changed("parallel") && defaults.Parallel > 0 {
			parallel = defaults.Parallel
		}
		if policy == "" {
			policy = defaults.Policy
		}
	}

	o.Ignore = append(o.Ignore, ignore...)
	if parallel > 0 {
		o.Parallelism = parallel
	}
	if policy != "" {
		p, err := operation.ParseFailurePolicy(policy)
		if err != nil {
			return err
		}
		o.FilePolicy, o.TreePolicy = p, p
	}
	return nil
}

// newProgress returns a spinner when printing to a terminal without debug
// logs, nil otherwise
func newProgress(ro *opts.RootOpts) *progressbar.ProgressBar {
	if ro.Log || !isTerminal(ro.Out) {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("copying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

func reportCopy(ro *opts.RootOpts, o operation.Options, rep *operation.Report, src, trg string) {
	switch {
	case rep.Success && o.ForceOverwrite:
		ro.UserLogger.Success(fmt.Sprintf("Copied %s to %s", src, trg))
	case rep.Success:
		ro.UserLogger.Warning("force_overwrite was set to false, existing files were kept")
		if skipped := rep.Count(operation.ActionSkipped); skipped > 0 {
			ro.UserLogger.Info(fmt.Sprintf("%d existing files left untouched", skipped))
		}
		if !ro.Log {
			ro.UserLogger.Info("Try again with --log option to debug.")
		}
	default:
		ro.UserLogger.Error("There was a problem processing your request.", nil)
		for _, f := range rep.Failed() {
			ro.UserLogger.Error(f.Source, f.Err)
		}
		if !ro.Log {
			ro.UserLogger.Info("Try again with --log option to debug.")
		}
	}
}
