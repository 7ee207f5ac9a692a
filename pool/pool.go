package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrAlreadySubmitted is returned by SubmitAll when the pool's single
// batch has already been submitted. A Pool processes exactly one batch;
// construct a new Pool for the next one.
var ErrAlreadySubmitted = errors.New("pool: batch already submitted")

// Pool is a shared-memory worker pool processing one fixed batch of
// jobs with bounded concurrency.
//
// Type parameters:
//   - T: the job input type
//   - R: the payload type produced on success
type Pool[T any, R any] struct {
	fn   JobFunc[T, R]
	conf *config

	mu        sync.Mutex
	started   bool
	cancel    context.CancelFunc
	ready     chan *Pending[T, R]
	completed chan *Pending[T, R]
	joined    chan struct{}
}

// New creates a pool that will run fn for every submitted job.
// Construction fails for a nil job function or a worker count outside
// [1, MaxWorkers]; such errors are configuration mistakes and are
// reported immediately rather than deferred to submission.
func New[T any, R any](fn JobFunc[T, R], opts ...Option) (*Pool[T, R], error) {
	if fn == nil {
		return nil, errors.New("pool: job function must not be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}

	return &Pool[T, R]{
		fn:     fn,
		conf:   cfg,
		joined: make(chan struct{}),
	}, nil
}

// SubmitAll schedules every job and returns its handles without
// blocking. Submission order determines ready-queue order; completion
// order depends on execution time and is observed through Drain.
//
// The context bounds the whole batch: cancelling it stops feeding the
// ready queue and makes workers wind down after their current job.
// SubmitAll can be called once per pool.
func (p *Pool[T, R]) SubmitAll(ctx context.Context, jobs []T) ([]*Pending[T, R], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil, ErrAlreadySubmitted
	}
	p.started = true

	pendings := make([]*Pending[T, R], len(jobs))
	for i, job := range jobs {
		pendings[i] = newPending[T, R](job)
	}

	// Buffered for the whole batch so workers never block handing off a
	// completed handle, even when draining stops early.
	p.completed = make(chan *Pending[T, R], len(jobs))

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	if len(jobs) == 0 {
		cancel()
		close(p.completed)
		close(p.joined)
		return pendings, nil
	}

	g, gctx := errgroup.WithContext(runCtx)

	ready := make(chan *Pending[T, R], p.conf.queueDepth)
	p.ready = ready

	workers := min(p.conf.workerCount, len(jobs))
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return p.worker(gctx)
		})
	}

	g.Go(func() error {
		defer close(ready)
		for _, pending := range pendings {
			select {
			case ready <- pending:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	go func() {
		_ = g.Wait()
		close(p.completed)
		close(p.joined)
	}()

	return pendings, nil
}

// Drain returns the completion-order channel of finished handles. The
// channel is closed once every submitted job has completed or the batch
// was cancelled; it is the same channel on every call and cannot be
// restarted.
func (p *Pool[T, R]) Drain() <-chan *Pending[T, R] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed == nil {
		// Nothing submitted: an empty, closed stream.
		ch := make(chan *Pending[T, R])
		close(ch)
		return ch
	}
	return p.completed
}

// Shutdown cancels any remaining work and blocks until every worker
// goroutine has exited. It must be called on all paths, including when
// draining was abandoned early; it is idempotent and safe to defer
// right after New.
func (p *Pool[T, R]) Shutdown() {
	p.mu.Lock()
	started := p.started
	cancel := p.cancel
	p.mu.Unlock()

	if !started {
		return
	}
	if cancel != nil {
		cancel()
	}
	<-p.joined
}

func (p *Pool[T, R]) worker(ctx context.Context) error {
	for {
		select {
		case pending, ok := <-p.ready:
			if !ok {
				return nil
			}
			if p.conf.limiter != nil {
				if err := p.conf.limiter.Wait(ctx); err != nil {
					return err
				}
			}
			value, err := p.run(ctx, pending.job)
			pending.complete(value, err)
			p.completed <- pending
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// run invokes the job function with panic recovery so a single job can
// never crash the pool; a panic becomes the job's error.
func (p *Pool[T, R]) run(ctx context.Context, job T) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("job panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return p.fn(ctx, job)
}
