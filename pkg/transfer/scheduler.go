package transfer

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Task is one unit of bulk work. It must honour ctx cancellation.
type Task[T any] func(ctx context.Context) (T, error)

// Result pairs a task value with the position of the task in the submitted
// batch.
type Result[T any] struct {
	Index int
	Value T
}

// Run executes tasks with at most limit in flight. The first error cancels
// the context handed to every other task, stops new tasks from starting and
// is returned once all started tasks have unwound. On success the results
// are returned in submission order regardless of completion order.
func Run[T any](ctx context.Context, limit int, tasks []Task[T]) ([]Result[T], error) {
	if limit < 1 {
		limit = 1
	}
	if len(tasks) == 0 {
		return []Result[T]{}, nil
	}

	// Cancelled by the first failing task before it releases its slot.
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(batchCtx)
	sem := semaphore.NewWeighted(int64(limit))

	var mu sync.Mutex
	results := make([]Result[T], 0, len(tasks))

	var once sync.Once
	var firstErr error
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, task := range tasks {
		if err := sem.Acquire(gctx, 1); err != nil {
			// A task failed or the caller gave up; Wait reports which.
			break
		}
		if gctx.Err() != nil {
			sem.Release(1)
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			v, err := task(gctx)
			if err != nil {
				fail(err)
				return err
			}
			mu.Lock()
			results = append(results, Result[T]{Index: i, Value: v})
			mu.Unlock()
			return nil
		})
	}

	waitErr := g.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Index < results[b].Index })
	return results, nil
}

// Values strips the indices from sorted results.
func Values[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		out = append(out, r.Value)
	}
	return out
}
