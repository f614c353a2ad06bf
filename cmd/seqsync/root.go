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

package main

import (
	"io"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/seqsync/cmd/seqsync/commands"
	"github.com/walteh/seqsync/cmd/seqsync/opts"
	"github.com/walteh/seqsync/pkg/config"
	"github.com/walteh/seqsync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd creates the seqsync command tree writing user output to out
func newRootCmd(out io.Writer) (*cobra.Command, *opts.RootOpts) {
	ro := &opts.RootOpts{Out: out}

	cmd := &cobra.Command{
		Use:   "seqsync",
		Short: "Copy and compare files, frame sequences and directories",
		Long: `seqsync copies a file, every frame of the sequence it belongs to, or a
whole directory into a target directory, and reports whether two paths are
in sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupRootOpts(cmd, ro)
		},
	}
	cmd.SetOut(out)

	addRootFlags(cmd, ro)

	cmd.AddCommand(
		commands.NewCopyCmd(ro),
		commands.NewStatusCmd(ro),
	)

	return cmd, ro
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, ro *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&ro.ConfigFile, "config", "c", "", "config file path (default: searched in the XDG config dirs)")
	cmd.PersistentFlags().BoolVar(&ro.Log, "log", false, "print debug logs to the console")
	cmd.PersistentFlags().BoolVar(&ro.LogFile, "log_file", false, "also write logs to a daily file in the home directory")
}

// setupRootOpts loads config and builds the loggers shared by every command
func setupRootOpts(cmd *cobra.Command, ro *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := config.Resolve(ctx, ro.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	logOpts := log.Options{Verbose: ro.Log}
	if ro.Log {
		logOpts.Console = ro.Out
	}
	if ro.LogFile {
		logOpts.FileDir = cfg.LogDir(xdg.Home)
	}

	logger, closer, err := log.Setup(logOpts)
	if err != nil {
		return errors.Errorf("setting up logging: %w", err)
	}

	ro.Config = cfg
	ro.Logger = logger
	ro.Closer = closer
	ro.UserLogger = log.NewUserLogger(ro.Out, *logger)
	ro.Console = log.NewConsole(ro.Out, *logger)

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	if f, ok := closer.(*log.DailyFile); ok {
		logger.Debug().Str("path", f.Path()).Msg("writing log file")
	}

	ctx = logger.WithContext(ctx)
	ctx = log.NewContext(ctx, ro.Console)
	cmd.SetContext(ctx)
	return nil
}

// userLogger returns the configured user logger, or a plain one when setup
// never ran
func userLogger(ro *opts.RootOpts) *log.UserLogger {
	if ro.UserLogger != nil {
		return ro.UserLogger
	}
	return log.NewUserLogger(ro.Out, zerolog.Nop())
}
