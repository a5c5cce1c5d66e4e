package crawler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestForEachBatchBoundsInFlight(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 23} {
		items := make([]int, n)
		var inFlight, peak atomic.Int32
		var mu sync.Mutex
		seen := make([]bool, n)

		done := ForEachBatch(context.Background(), items, 5, func(ctx context.Context, idx int, _ int) {
			cur := inFlight.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			seen[idx] = true
			mu.Unlock()
			inFlight.Add(-1)
		}, nil)

		if done != n {
			t.Fatalf("n=%d done=%d", n, done)
		}
		if p := peak.Load(); p > 5 {
			t.Fatalf("n=%d peak in flight=%d, want <= 5", n, p)
		}
		for i, ok := range seen {
			if !ok {
				t.Fatalf("n=%d item %d never ran", n, i)
			}
		}
	}
}

func TestForEachBatchBarrier(t *testing.T) {
	items := make([]int, 12)
	var mu sync.Mutex
	var order []int
	ForEachBatch(context.Background(), items, 4, func(ctx context.Context, idx int, _ int) {
		// later items in a batch finish first; batches must still not overlap
		time.Sleep(time.Duration(4-idx%4) * time.Millisecond)
		mu.Lock()
		order = append(order, idx/4)
		mu.Unlock()
	}, nil)
	for i := 1; i < len(order); i++ {
		if order[i] < order[i-1] {
			t.Fatalf("batches overlapped: %v", order)
		}
	}
}

func TestForEachBatchAfterBatchStops(t *testing.T) {
	items := make([]int, 10)
	var calls atomic.Int32
	var progress []int
	done := ForEachBatch(context.Background(), items, 3, func(ctx context.Context, idx int, _ int) {
		calls.Add(1)
	}, func(done int) bool {
		progress = append(progress, done)
		return done < 6
	})
	if done != 6 || calls.Load() != 6 {
		t.Fatalf("done=%d calls=%d, want 6/6", done, calls.Load())
	}
	if len(progress) != 2 || progress[0] != 3 || progress[1] != 6 {
		t.Fatalf("progress=%v", progress)
	}
}

func TestForEachLimitCountsFailures(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	res := ForEachLimit(context.Background(), items, 2, func(ctx context.Context, v int) error {
		if v%2 == 0 {
			return NewHTTPStatusError("youtube", "u", 429, "")
		}
		if v == 5 {
			return errors.New("boom")
		}
		return nil
	})
	if res.Processed != 5 || res.Succeeded != 2 || res.Failed != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.FailureKinds[string(ErrorKindRateLimited)] != 2 || res.FailureKinds[string(ErrorKindUnknown)] != 1 {
		t.Fatalf("unexpected failure kinds: %+v", res.FailureKinds)
	}
}

func TestForEachLimitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := ForEachLimit(ctx, []int{1, 2, 3}, 1, func(ctx context.Context, v int) error { return nil })
	if res.Processed != 0 {
		t.Fatalf("expected nothing processed, got %+v", res)
	}
}

func TestForEachLimitManyItems(t *testing.T) {
	for _, n := range []int{9, 23, 100} {
		done := make(chan ItemResult, 1)
		go func() {
			done <- ForEachLimit(context.Background(), make([]int, n), 4, func(ctx context.Context, v int) error { return nil })
		}()
		select {
		case res := <-done:
			if res.Processed != n || res.Succeeded != n {
				t.Fatalf("n=%d result = %+v", n, res)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("n=%d: ForEachLimit did not return", n)
		}
	}
}
