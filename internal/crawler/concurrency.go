package crawler

import (
	"context"
	"sync"
)

type ItemResult struct {
	Processed    int
	Succeeded    int
	Failed       int
	FailureKinds map[string]int
}

// ForEachLimit runs fn over items with at most limit calls in flight. Items not
// yet started when ctx is done are skipped.
func ForEachLimit[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) ItemResult {
	if limit <= 1 {
		var out ItemResult
		for _, it := range items {
			if ctx.Err() != nil {
				return out
			}
			out.Processed++
			if err := fn(ctx, it); err != nil {
				out.Failed++
				out.FailureKinds = mergeFailureKind(out.FailureKinds, KindOf(err))
				continue
			}
			out.Succeeded++
		}
		return out
	}

	jobs := make(chan T)
	// one slot per item so workers never block while jobs are still being sent
	res := make(chan error, len(items))

	for i := 0; i < limit; i++ {
		go func() {
			for it := range jobs {
				res <- fn(ctx, it)
			}
		}()
	}

	var out ItemResult
	stopped := false
	for _, it := range items {
		if stopped {
			break
		}
		select {
		case <-ctx.Done():
			stopped = true
		case jobs <- it:
			out.Processed++
		}
	}
	close(jobs)

	for i := 0; i < out.Processed; i++ {
		err := <-res
		if err != nil {
			out.Failed++
			out.FailureKinds = mergeFailureKind(out.FailureKinds, KindOf(err))
			continue
		}
		out.Succeeded++
	}
	return out
}

// ForEachBatch splits items into consecutive batches of size and runs every
// call in a batch concurrently. A batch starts only after all calls of the
// previous one have returned, so at most size calls are ever in flight. fn
// receives the item's index in items. afterBatch, when non-nil, runs after each
// batch with the number of items finished so far; returning false stops before
// the next batch. Batches not started when ctx is done are skipped.
func ForEachBatch[T any](ctx context.Context, items []T, size int, fn func(ctx context.Context, idx int, item T), afterBatch func(done int) bool) int {
	if size <= 0 {
		size = 1
	}
	done := 0
	for start := 0; start < len(items); start += size {
		if ctx.Err() != nil {
			return done
		}
		end := min(start+size, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fn(ctx, i, items[i])
			}(i)
		}
		wg.Wait()

		done = end
		if afterBatch != nil && !afterBatch(done) {
			return done
		}
	}
	return done
}

func mergeFailureKind(m map[string]int, kind ErrorKind) map[string]int {
	if kind == "" {
		kind = ErrorKindUnknown
	}
	if m == nil {
		m = make(map[string]int, 1)
	}
	m[string(kind)]++
	return m
}
