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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// errStop is returned by a task to stop the remaining ones
var errStop = errors.New("stopping after failure")

type task func(ctx context.Context) error

// 🏃 runner executes copy tasks
type runner struct {
	logger *zerolog.Logger
	limit  int
}

// 🏗️ newRunner creates a runner running up to limit tasks at once
func newRunner(logger *zerolog.Logger, limit int) *runner {
	return &runner{
		logger: logger,
		limit:  limit,
	}
}

// 🏃 Run executes tasks. Cancellation is checked before each task starts,
// a running task is never interrupted. Tasks not started because of errStop
// are silently dropped, a cancelled ctx is returned as an error.
func (r *runner) Run(ctx context.Context, tasks []task) error {
	var err error
	if r.limit > 1 && len(tasks) > 1 {
		err = r.runAsync(ctx, tasks)
	} else {
		err = r.runSync(ctx, tasks)
	}

	if ctx.Err() != nil {
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	}
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

// 🔄 runSync runs tasks one after another
func (r *runner) runSync(ctx context.Context, tasks []task) error {
	for _, t := range tasks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := t(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs tasks on an errgroup
func (r *runner) runAsync(ctx context.Context, tasks []task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	r.logger.Debug().Int("tasks", len(tasks)).Int("limit", r.limit).Msg("running tasks in parallel")

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return t(gctx)
		})
	}

	return g.Wait()
}
