package procpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rahulmenon/batchpool/internal/cpu"
)

var (
	// ErrAlreadySubmitted is returned by SubmitAll when the pool's
	// single batch has already been submitted.
	ErrAlreadySubmitted = errors.New("procpool: batch already submitted")

	// ErrInvalidJob is returned by SubmitAll when a job input fails the
	// configured validator. Nothing is enqueued in that case.
	ErrInvalidJob = errors.New("procpool: invalid job input")

	// ErrWorkerLost is delivered on the drain error channel when a
	// drain timeout is configured and no report arrives in time,
	// indicating a worker died or wedged before emitting its done
	// marker.
	ErrWorkerLost = errors.New("procpool: no report within drain timeout, worker presumed lost")
)

// Pool runs one fixed batch of jobs across W isolated workers. Workers
// hold no reference to the pool, to each other, or to any shared
// mutable state; they communicate with the caller exclusively through
// the job and result channels they were handed at spawn.
//
// Type parameters:
//   - T: the job input type
//   - R: the payload type produced on success
type Pool[T any, R any] struct {
	fn   JobFunc[T, R]
	conf *config

	mu      sync.Mutex
	started bool
	results chan Report[T, R]
	quit    chan struct{}
	wg      sync.WaitGroup
}

// New creates a pool that will run fn on every worker. Construction
// fails for a nil job function or a worker count outside
// [1, MaxWorkers].
func New[T any, R any](fn JobFunc[T, R], opts ...Option) (*Pool[T, R], error) {
	if fn == nil {
		return nil, errors.New("procpool: job function must not be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("procpool: %w", err)
	}

	return &Pool[T, R]{
		fn:   fn,
		conf: cfg,
		quit: make(chan struct{}),
	}, nil
}

// Workers returns the configured worker count W. Draining observes
// exactly W done markers.
func (p *Pool[T, R]) Workers() int {
	return p.conf.workers
}

// SubmitAll validates every job, enqueues the full batch onto the job
// channel followed by one shutdown message per worker, and spawns the
// workers. It does not block: both channels are sized for the entire
// exchange, so neither submission nor any worker send can stall.
//
// The context is handed to the job function only; the protocol itself
// carries no cancellation. SubmitAll can be called once per pool.
func (p *Pool[T, R]) SubmitAll(ctx context.Context, jobs []T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadySubmitted
	}

	if p.conf.validate != nil {
		for _, job := range jobs {
			if err := p.conf.validate(job); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidJob, err)
			}
		}
	}

	p.started = true

	workers := p.conf.workers
	jobCh := make(chan message[T], len(jobs)+workers)
	p.results = make(chan Report[T, R], len(jobs)+workers)

	for _, job := range jobs {
		jobCh <- message[T]{kind: msgJob, job: job}
	}
	for i := 0; i < workers; i++ {
		jobCh <- message[T]{kind: msgShutdown}
	}

	fn := p.fn
	pinned := p.conf.pinned
	p.wg.Add(workers)
	for id := 0; id < workers; id++ {
		// Workers receive everything they touch as arguments; the only
		// pool state they reach back into is the WaitGroup used to join
		// them.
		go func(id int, in <-chan message[T], out chan<- Report[T, R]) {
			defer p.wg.Done()
			runWorker(ctx, id, fn, in, out, pinned)
		}(id, jobCh, p.results)
	}

	return nil
}

// Drain returns a channel of reports in arrival order and an error
// channel. The report channel is closed after one done marker per
// worker has been forwarded; the error channel delivers ErrWorkerLost
// if a drain timeout is configured and expires. Both channels are
// closed when draining ends, whichever way it ends.
func (p *Pool[T, R]) Drain() (<-chan Report[T, R], <-chan error) {
	out := make(chan Report[T, R])
	errCh := make(chan error, 1)

	p.mu.Lock()
	results := p.results
	started := p.started
	p.mu.Unlock()

	go func() {
		defer close(out)
		defer close(errCh)

		if !started {
			return
		}

		workersDone := 0
		for workersDone < p.conf.workers {
			var timeout <-chan time.Time
			if p.conf.drainTimeout > 0 {
				timeout = time.After(p.conf.drainTimeout)
			}

			select {
			case report := <-results:
				if report.Kind == ReportWorkerDone {
					workersDone++
				}
				select {
				case out <- report:
				case <-p.quit:
					return
				}
			case <-timeout:
				errCh <- ErrWorkerLost
				return
			case <-p.quit:
				return
			}
		}
	}()

	return out, errCh
}

// Shutdown releases the drain forwarder and joins every worker. Workers
// are never killed: each one exits by consuming its shutdown message,
// which is already enqueued, so the join completes as soon as in-flight
// job functions return.
//
// A job function that ignores its context and never returns would block
// the join forever. When a drain timeout is configured, Shutdown bounds
// the join by the same window and then gives up on the wedged worker;
// its goroutine is unrecoverable either way.
func (p *Pool[T, R]) Shutdown() {
	p.mu.Lock()
	started := p.started
	select {
	case <-p.quit:
	default:
		close(p.quit)
	}
	p.mu.Unlock()

	if !started {
		return
	}

	joined := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(joined)
	}()

	if p.conf.drainTimeout > 0 {
		select {
		case <-joined:
		case <-time.After(p.conf.drainTimeout):
		}
		return
	}
	<-joined
}

// runWorker is the worker loop. It is a free function on purpose: its
// entire world is its arguments, mirroring a child process that
// inherited two queue endpoints and nothing else.
func runWorker[T any, R any](
	ctx context.Context,
	id int,
	fn JobFunc[T, R],
	in <-chan message[T],
	out chan<- Report[T, R],
	pinned bool,
) {
	if pinned {
		unpin := cpu.PinWorker(id)
		defer unpin()
	}

	for msg := range in {
		if msg.kind == msgShutdown {
			out <- Report[T, R]{Kind: ReportWorkerDone, Worker: id}
			return
		}

		value, err := runOne(ctx, fn, msg.job)
		out <- Report[T, R]{
			Kind:   ReportResult,
			Job:    msg.job,
			Value:  value,
			Err:    err,
			Worker: id,
		}
	}
}

// runOne invokes the job function with panic recovery so a failing job
// is reported, never allowed to take its worker down without a marker.
func runOne[T any, R any](ctx context.Context, fn JobFunc[T, R], job T) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("job panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return fn(ctx, job)
}
