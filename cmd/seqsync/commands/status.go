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
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/seqsync/cmd/seqsync/opts"
	"github.com/walteh/seqsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type statusOpts struct {
	syncStatus  bool
	ignoreName  bool
	ignoreStats []string
	mostRecent  string
	dirSize     bool
	verbose     bool
}

// NewStatusCmd creates the status command
func NewStatusCmd(ro *opts.RootOpts) *cobra.Command {
	so := &statusOpts{}

	cmd := &cobra.Command{
		Use:   "status SRC TRG",
		Short: "Compare two paths without modifying them",
		Long: `Status compares SRC with TRG.
It can:
1. Classify both paths as in sync, out of sync, missing, different kinds or identical
2. Tell which path was modified, accessed or changed most recently
3. Print the recursive size of directories

Without any query flag the sync status is printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, trg := args[0], args[1]

			cmpOpts, err := so.compareOptions(cmd)
			if err != nil {
				return err
			}

			var field status.StatField
			if so.mostRecent != "" {
				f, ok := status.ParseStatField(so.mostRecent)
				if !ok || !f.IsTime() {
					return errors.Errorf("invalid choice for --get_most_recent: %q (choose from %s)", so.mostRecent, joinFields(status.TimeFields))
				}
				field = f
			}

			logger := zerolog.Ctx(cmd.Context()).With().Str("command", "status").Logger()
			reporter := status.NewReporter(&logger)

			if !so.syncStatus && field == "" && !so.dirSize {
				so.syncStatus = true
			}

			if so.syncStatus {
				if err := printSyncStatus(ro, reporter, src, trg, cmpOpts, so.verbose); err != nil {
					return err
				}
			}

			if field != "" {
				path, err := reporter.MostRecent(src, trg, field)
				if err != nil {
					return err
				}
				ro.UserLogger.Println(status.FormatMostRecent(field, path))
			}

			if so.dirSize {
				for _, p := range []string{src, trg} {
					size, ok, err := reporter.DirSize(p)
					if err != nil {
						return err
					}
					if !ok {
						ro.UserLogger.Println(fmt.Sprintf("%s: not a directory", p))
						continue
					}
					ro.UserLogger.Println(status.FormatDirSize(p, size))
				}
			}

			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&so.syncStatus, "get_sync_status", false, "print the sync status of SRC and TRG")
	fs.BoolVar(&so.ignoreName, "ignore_name", false, "do not compare base names")
	fs.StringSliceVar(&so.ignoreStats, "ignore_stats", nil,
		fmt.Sprintf("stat fields left out of the comparison (default %s, pass --ignore_stats= to compare all)", joinFields(status.DefaultIgnored)))
	fs.StringVar(&so.mostRecent, "get_most_recent", "",
		fmt.Sprintf("print the most recent path by one of %s", joinFields(status.TimeFields)))
	fs.Lookup("get_most_recent").NoOptDefVal = string(status.StatMtime)
	fs.BoolVar(&so.dirSize, "get_dir_size", false, "print the recursive size of SRC and TRG when they are directories")
	fs.BoolVarP(&so.verbose, "verbose", "v", false, "print every compared field")

	return cmd
}

// compareOptions turns the flags into status.CompareOptions. An explicit
// empty --ignore_stats compares every field.
func (so *statusOpts) compareOptions(cmd *cobra.Command) (status.CompareOptions, error) {
	out := status.CompareOptions{IgnoreName: so.ignoreName}
	if !cmd.Flags().Changed("ignore_stats") {
		return out, nil
	}

	out.IgnoreStats = []status.StatField{}
	for _, name := range so.ignoreStats {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, ok := status.ParseStatField(name)
		if !ok {
			return out, errors.Errorf("invalid stat field for --ignore_stats: %q (choose from %s)", name, joinFields(status.AllStatFields))
		}
		out.IgnoreStats = append(out.IgnoreStats, f)
	}
	return out, nil
}

func printSyncStatus(ro *opts.RootOpts, reporter *status.Reporter, src, trg string, cmpOpts status.CompareOptions, verbose bool) error {
	res, err := reporter.SyncStatus(src, trg, cmpOpts)
	if err != nil {
		return err
	}
	ro.UserLogger.Println(status.FormatResult(res))

	if verbose && (res.Code == status.CodeInSync || res.Code == status.CodeOutOfSync) {
		cmp, err := reporter.CompareStats(src, trg, cmpOpts)
		if err != nil {
			return err
		}
		ro.UserLogger.Println(status.FormatComparison(cmp))
	}
	return nil
}

func joinFields(fields []status.StatField) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
