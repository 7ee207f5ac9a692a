package dispatch

import (
	"fmt"
	"time"

	"github.com/rahulmenon/batchpool/outcome"
)

// Kind selects the worker substrate a batch runs on.
type Kind int

const (
	// Shared runs jobs on the shared-memory pool: goroutine workers
	// over a shared ready queue, suited to I/O-bound job functions.
	Shared Kind = iota
	// Isolated runs jobs on the share-nothing pool: workers that
	// communicate only through the job and result channels, suited to
	// CPU-bound job functions.
	Isolated
)

func (k Kind) String() string {
	switch k {
	case Shared:
		return "shared"
	case Isolated:
		return "isolated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Option is a functional option for configuring a run.
type Option func(*config)

type config struct {
	kind         Kind
	concurrency  int
	observer     func(job, value any, oc outcome.Outcome)
	validate     func(any) error
	ratePerSec   float64
	rateBurst    int
	drainTimeout time.Duration
	pinned       bool
}

// WithKind selects the substrate. Defaults to Shared.
func WithKind(k Kind) Option {
	return func(c *config) {
		c.kind = k
	}
}

// WithConcurrency sets the worker count K for the chosen substrate.
// Zero keeps the substrate's default; invalid values make Run fail
// immediately at pool construction.
func WithConcurrency(k int) Option {
	return func(c *config) {
		c.concurrency = k
	}
}

// WithObserver registers a callback invoked from the drain loop for
// every classified job, in completion order: the job input, the payload
// it produced (the zero value when the job failed), and its outcome.
// Used for per-job report lines and progress indication.
func WithObserver[T any, R any](fn func(job T, value R, oc outcome.Outcome)) Option {
	return func(c *config) {
		c.observer = func(j, v any, oc outcome.Outcome) {
			job, jobOK := j.(T)
			value, valueOK := v.(R)
			if jobOK && valueOK {
				fn(job, value, oc)
			}
		}
	}
}

// WithJobValidator installs a precondition on job inputs; Run refuses
// the whole batch before building a pool if any input fails.
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

// WithRateLimit throttles job execution on the shared substrate.
// Ignored by the isolated substrate, whose workloads are local.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *config) {
		c.ratePerSec = perSec
		c.rateBurst = burst
	}
}

// WithDrainTimeout bounds how long the isolated substrate's drain waits
// between reports before presuming a worker lost. Zero (the default)
// waits forever.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *config) {
		c.drainTimeout = d
	}
}

// WithPinnedWorkers pins isolated workers' OS threads to CPU cores.
func WithPinnedWorkers() Option {
	return func(c *config) {
		c.pinned = true
	}
}
