package procpool

import (
	"fmt"
	"runtime"
	"time"
)

// MaxWorkers is the ceiling on the configured worker count.
const MaxWorkers = 1000

// Option is a functional option for configuring a Pool.
type Option func(*config)

type config struct {
	workers      int
	drainTimeout time.Duration
	validate     func(any) error
	pinned       bool
}

func defaultConfig() *config {
	return &config{
		workers: runtime.NumCPU(),
	}
}

func (c *config) check() error {
	if c.workers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.workers)
	}
	if c.workers > MaxWorkers {
		return fmt.Errorf("worker count %d exceeds ceiling %d", c.workers, MaxWorkers)
	}
	if c.drainTimeout < 0 {
		return fmt.Errorf("drain timeout must be non-negative, got %v", c.drainTimeout)
	}
	return nil
}

// WithWorkers sets the number of isolated workers W. Exactly W shutdown
// messages and W done markers flow through the channels. Defaults to
// runtime.NumCPU(), the natural choice for CPU-bound batches.
func WithWorkers(count int) Option {
	return func(c *config) {
		c.workers = count
	}
}

// WithDrainTimeout hardens draining against lost workers: if no report
// arrives within d, the drain fails with ErrWorkerLost instead of
// blocking forever. The default of zero reproduces the base protocol,
// which has no liveness detection.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *config) {
		c.drainTimeout = d
	}
}

// WithPinnedWorkers pins each worker's OS thread to a CPU core for the
// lifetime of the batch. Only worthwhile for CPU-bound job functions.
func WithPinnedWorkers() Option {
	return func(c *config) {
		c.pinned = true
	}
}

// WithJobValidator installs a precondition on job inputs. SubmitAll
// checks every job before anything is enqueued and refuses the whole
// batch if any input fails, so a malformed input is rejected up front
// instead of wedging the protocol. The validator's input type must
// match the pool's job type.
func WithJobValidator[T any](fn func(T) error) Option {
	return func(c *config) {
		c.validate = func(v any) error {
			job, ok := v.(T)
			if !ok {
				return fmt.Errorf("job validator expects type %T, got %T", job, v)
			}
			return fn(job)
		}
	}
}
