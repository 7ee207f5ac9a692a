package pool

import (
	"fmt"
	"runtime"

	"golang.org/x/time/rate"
)

// MaxWorkers is the ceiling on the configured worker count. It bounds
// resource use the same way the batch's size bounds useful parallelism;
// asking for more concurrent workers than this is treated as a
// configuration mistake, not clamped silently.
const MaxWorkers = 1000

// Option is a functional option for configuring a Pool.
type Option func(*config)

type config struct {
	workerCount int
	queueDepth  int
	limiter     *rate.Limiter
}

func defaultConfig() *config {
	return &config{
		workerCount: runtime.GOMAXPROCS(0),
		queueDepth:  0, // set to workerCount if not specified
	}
}

func (c *config) validate() error {
	if c.workerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.workerCount)
	}
	if c.workerCount > MaxWorkers {
		return fmt.Errorf("worker count %d exceeds ceiling %d", c.workerCount, MaxWorkers)
	}
	if c.queueDepth < 0 {
		return fmt.Errorf("queue depth must be non-negative, got %d", c.queueDepth)
	}
	if c.queueDepth == 0 {
		c.queueDepth = c.workerCount
	}
	return nil
}

// WithWorkerCount sets the number of concurrent workers K. At most K
// jobs are in flight at once; excess jobs wait in the ready queue.
// Defaults to runtime.GOMAXPROCS(0). Values outside [1, MaxWorkers]
// make construction fail.
func WithWorkerCount(count int) Option {
	return func(c *config) {
		c.workerCount = count
	}
}

// WithQueueDepth sets the capacity of the ready queue feeding the
// workers. Defaults to the worker count.
func WithQueueDepth(depth int) Option {
	return func(c *config) {
		c.queueDepth = depth
	}
}

// WithRateLimit gates job execution to perSec jobs per second with the
// given burst. Useful when the job function hits an external service
// that should not be hammered.
//
// Example:
//
//	WithRateLimit(10, 5) // 10 jobs/sec, burst of 5
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *config) {
		if perSec > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}
