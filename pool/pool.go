// Copyright 2025 Poiesic Systems
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


package pool

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Map runs fn over every item with a CPU-sized worker pool and returns the
// results in input order. The pool is sized min(len(items), NumCPU).
//
// Each item is processed independently; a failing item gets a non-nil entry
// in the returned error slice and a zero-value result, other items are
// unaffected. If the pool itself cannot be started, the whole batch is
// retried sequentially.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, []error) {
	workers := runtime.NumCPU()
	if workers > len(items) {
		workers = len(items)
	}
	return FanOut(ctx, items, workers, fn)
}

// FanOut runs fn over every item with a bounded number of concurrent
// workers and returns the results keyed by input index, regardless of
// completion order. Intended for I/O-bound fan-out over independent
// requests (a fixed small width), but also backs Map.
//
// Workers share no mutable state: each writes only its own result slot.
// Cancellation is cooperative — items not yet submitted are skipped with
// ctx.Err(), in-flight items run to completion.
func FanOut[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	if len(items) == 0 {
		return results, errs
	}
	if workers < 1 {
		workers = 1
	}

	p, err := ants.NewPool(workers)
	if err != nil {
		// Total pool failure: full sequential retry of the same work.
		slog.Warn("worker pool start failed, running sequentially", "err", err)
		runSequential(ctx, items, results, errs, fn)
		return results, errs
	}
	defer p.Release()

	var wg sync.WaitGroup
	for i := range items {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		default:
		}

		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i], errs[i] = fn(ctx, items[i])
		}
		if submitErr := p.Submit(task); submitErr != nil {
			// Pool rejected the task; run it inline rather than dropping it.
			task()
		}
	}
	wg.Wait()

	return results, errs
}

func runSequential[T, R any](ctx context.Context, items []T, results []R, errs []error, fn func(context.Context, T) (R, error)) {
	for i := range items {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		default:
		}
		results[i], errs[i] = fn(ctx, items[i])
	}
}

// FirstError returns the first non-nil error in errs, or nil.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
