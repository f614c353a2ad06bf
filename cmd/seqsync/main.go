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
	"context"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, out io.Writer) int {
	cmd, ro := newRootCmd(out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)

	if ro.Closer != nil {
		if cerr := ro.Closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	if err != nil {
		userLogger(ro).LogValidation(false, "Command failed", err)
		return 1
	}
	return 0
}
