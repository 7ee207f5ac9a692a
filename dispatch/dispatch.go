// Package dispatch orchestrates one batch of jobs against a worker
// substrate: it builds the selected pool, submits the whole batch,
// drains completions in arrival order, classifies each outcome, and
// accumulates a tally with the elapsed wall-clock time.
//
// Cancellation is observed at the drain loop: when the context is
// cancelled mid-drain, consumption stops promptly, already-tallied
// counts stay intact, the pool is still shut down cleanly, and the
// summary reports how many jobs were abandoned (Submitted - Drained).
// Interruption is not an error and not an outcome category.
//
// Every job's function is invoked at most once: there is no retry, no
// resubmission, and no speculative re-execution.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rahulmenon/batchpool/outcome"
	"github.com/rahulmenon/batchpool/pool"
	"github.com/rahulmenon/batchpool/procpool"
)

// ErrInvalidJob is returned by Run when a job input fails the
// configured validator. No pool is built and nothing is executed.
var ErrInvalidJob = errors.New("dispatch: invalid job input")

// Run executes one fixed batch of jobs with bounded concurrency on the
// configured substrate and returns the aggregate summary.
//
// Pool construction failures (for example an invalid concurrency level)
// are fatal and returned immediately. A lost-worker drain timeout on
// the isolated substrate is returned as procpool.ErrWorkerLost together
// with the partial summary.
func Run[T any, R any](
	ctx context.Context,
	jobs []T,
	fn func(ctx context.Context, job T) (R, error),
	opts ...Option,
) (Summary, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.validate != nil {
		for _, job := range jobs {
			if err := cfg.validate(job); err != nil {
				return Summary{}, fmt.Errorf("%w: %v", ErrInvalidJob, err)
			}
		}
	}

	switch cfg.kind {
	case Isolated:
		return runIsolated(ctx, jobs, procpool.JobFunc[T, R](fn), cfg)
	default:
		return runShared(ctx, jobs, pool.JobFunc[T, R](fn), cfg)
	}
}

func runShared[T any, R any](ctx context.Context, jobs []T, fn pool.JobFunc[T, R], cfg *config) (Summary, error) {
	var popts []pool.Option
	// Zero keeps the pool default; anything else, valid or not, is the
	// caller's choice and goes through pool validation.
	if cfg.concurrency != 0 {
		popts = append(popts, pool.WithWorkerCount(cfg.concurrency))
	}
	if cfg.ratePerSec > 0 {
		popts = append(popts, pool.WithRateLimit(cfg.ratePerSec, cfg.rateBurst))
	}

	p, err := pool.New(fn, popts...)
	if err != nil {
		return Summary{}, err
	}
	defer p.Shutdown()

	s := Summary{Tally: Tally{}, Submitted: len(jobs)}
	start := time.Now()

	if _, err := p.SubmitAll(ctx, jobs); err != nil {
		return Summary{}, err
	}

	completions := p.Drain()
	for {
		select {
		case <-ctx.Done():
			s.Interrupted = true
			s.Elapsed = time.Since(start)
			return s, nil
		case pending, ok := <-completions:
			if !ok {
				s.Elapsed = time.Since(start)
				return s, nil
			}
			value, jobErr := pending.Get()
			tallyOne(&s, cfg, pending.Job(), value, jobErr)
		}
	}
}

func runIsolated[T any, R any](ctx context.Context, jobs []T, fn procpool.JobFunc[T, R], cfg *config) (Summary, error) {
	var popts []procpool.Option
	if cfg.concurrency != 0 {
		popts = append(popts, procpool.WithWorkers(cfg.concurrency))
	}
	if cfg.drainTimeout > 0 {
		popts = append(popts, procpool.WithDrainTimeout(cfg.drainTimeout))
	}
	if cfg.pinned {
		popts = append(popts, procpool.WithPinnedWorkers())
	}

	p, err := procpool.New(fn, popts...)
	if err != nil {
		return Summary{}, err
	}
	defer p.Shutdown()

	s := Summary{Tally: Tally{}, Submitted: len(jobs)}
	start := time.Now()

	if err := p.SubmitAll(ctx, jobs); err != nil {
		return Summary{}, err
	}

	reports, errCh := p.Drain()
	for {
		select {
		case <-ctx.Done():
			s.Interrupted = true
			s.Elapsed = time.Since(start)
			return s, nil
		case report, ok := <-reports:
			if !ok {
				s.Elapsed = time.Since(start)
				if err := <-errCh; err != nil {
					return s, err
				}
				return s, nil
			}
			if report.Kind == procpool.ReportWorkerDone {
				continue
			}
			tallyOne(&s, cfg, report.Job, report.Value, report.Err)
		}
	}
}

// tallyOne classifies a drained job and counts it exactly once. The
// only writer of the tally is the drain loop calling this.
func tallyOne[T any, R any](s *Summary, cfg *config, job T, value R, jobErr error) {
	oc := outcome.Classify(jobErr)
	s.Tally[oc.Status]++
	s.Drained++
	if cfg.observer != nil {
		cfg.observer(job, value, oc)
	}
}
