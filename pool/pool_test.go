package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func double(_ context.Context, n int) (int, error) {
	return n * 2, nil
}

func TestPool_AllJobsCompleteOnce(t *testing.T) {
	jobs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	// Every worker count from 1 to N must drain exactly N completions.
	for workers := 1; workers <= len(jobs); workers++ {
		t.Run("", func(t *testing.T) {
			p, err := New[int, int](double, WithWorkerCount(workers))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer p.Shutdown()

			if _, err := p.SubmitAll(context.Background(), jobs); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			drained := 0
			for pending := range p.Drain() {
				value, err := pending.Get()
				if err != nil {
					t.Errorf("job %d: unexpected error: %v", pending.Job(), err)
				}
				if value != pending.Job()*2 {
					t.Errorf("job %d: expected %d, got %d", pending.Job(), pending.Job()*2, value)
				}
				drained++
			}

			if drained != len(jobs) {
				t.Fatalf("workers=%d: expected %d completions, got %d", workers, len(jobs), drained)
			}
		})
	}
}

func TestPool_EmptyBatch(t *testing.T) {
	p, err := New[int, int](double)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown()

	pendings, err := p.SubmitAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pendings) != 0 {
		t.Fatalf("expected no handles, got %d", len(pendings))
	}

	if _, ok := <-p.Drain(); ok {
		t.Fatal("expected drain channel to be closed for an empty batch")
	}
}

func TestPool_ResubmitRejected(t *testing.T) {
	p, err := New[int, int](double, WithWorkerCount(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown()

	if _, err := p.SubmitAll(context.Background(), []int{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.SubmitAll(context.Background(), []int{2}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestPool_InvalidConfiguration(t *testing.T) {
	t.Run("nil job function", func(t *testing.T) {
		if _, err := New[int, int](nil); err == nil {
			t.Fatal("expected error for nil job function")
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		if _, err := New[int, int](double, WithWorkerCount(0)); err == nil {
			t.Fatal("expected error for zero workers")
		}
	})

	t.Run("above ceiling", func(t *testing.T) {
		if _, err := New[int, int](double, WithWorkerCount(MaxWorkers+1)); err == nil {
			t.Fatal("expected error for worker count above ceiling")
		}
	})
}

func TestPool_JobErrorsAreDelivered(t *testing.T) {
	jobErr := errors.New("boom")
	fn := func(_ context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, jobErr
		}
		return n, nil
	}

	p, err := New[int, int](fn, WithWorkerCount(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown()

	if _, err := p.SubmitAll(context.Background(), []int{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failed := 0
	succeeded := 0
	for pending := range p.Drain() {
		if _, err := pending.Get(); err != nil {
			if !errors.Is(err, jobErr) {
				t.Errorf("job %d: expected %v, got %v", pending.Job(), jobErr, err)
			}
			failed++
		} else {
			succeeded++
		}
	}

	if succeeded != 3 || failed != 2 {
		t.Fatalf("expected 3 successes and 2 failures, got %d and %d", succeeded, failed)
	}
}

func TestPool_PanicBecomesJobError(t *testing.T) {
	fn := func(_ context.Context, n int) (int, error) {
		if n == 3 {
			panic("job exploded")
		}
		return n, nil
	}

	p, err := New[int, int](fn, WithWorkerCount(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown()

	if _, err := p.SubmitAll(context.Background(), []int{1, 2, 3, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drained := 0
	panicked := 0
	for pending := range p.Drain() {
		if _, err := pending.Get(); err != nil {
			panicked++
		}
		drained++
	}

	if drained != 4 {
		t.Fatalf("panic must not lose completions: expected 4, got %d", drained)
	}
	if panicked != 1 {
		t.Fatalf("expected exactly 1 panic-derived error, got %d", panicked)
	}
}

func TestPool_CompletionOrderIsNotSubmissionOrder(t *testing.T) {
	// The first-submitted job is the slowest. With more than one worker
	// it must not be the first to complete.
	fn := func(ctx context.Context, n int) (int, error) {
		if n == 0 {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
		return n, nil
	}

	p, err := New[int, int](fn, WithWorkerCount(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown()

	if _, err := p.SubmitAll(context.Background(), []int{0, 1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := <-p.Drain()
	if first.Job() == 0 {
		t.Error("slowest job completed first; completion order should follow execution time")
	}
	for range p.Drain() {
	}
}

func TestPool_ShutdownJoinsWorkersAfterAbandonedDrain(t *testing.T) {
	var inFlight atomic.Int64
	release := make(chan struct{})

	fn := func(ctx context.Context, n int) (int, error) {
		inFlight.Add(1)
		defer inFlight.Add(-1)
		select {
		case <-release:
			return n, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	p, err := New[int, int](fn, WithWorkerCount(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := p.SubmitAll(ctx, []int{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Take one completion, then walk away from the drain.
	close(release)
	<-p.Drain()
	cancel()

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not join workers within 2s")
	}

	if n := inFlight.Load(); n != 0 {
		t.Fatalf("expected no in-flight jobs after Shutdown, got %d", n)
	}
}

func TestPool_ShutdownBeforeSubmitIsNoop(t *testing.T) {
	p, err := New[int, int](double)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		p.Shutdown() // idempotent
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown before submit should return immediately")
	}
}

func TestPool_RateLimitStillCompletesBatch(t *testing.T) {
	p, err := New[int, int](double, WithWorkerCount(4), WithRateLimit(1000, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Shutdown()

	if _, err := p.SubmitAll(context.Background(), []int{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drained := 0
	for range p.Drain() {
		drained++
	}
	if drained != 5 {
		t.Fatalf("expected 5 completions, got %d", drained)
	}
}
