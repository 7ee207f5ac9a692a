package procpool

import "context"

// JobFunc is the unit of work a worker executes for one job input.
// It mirrors the shared-memory pool's job function shape so the same
// function can be dispatched onto either substrate.
type JobFunc[T any, R any] func(ctx context.Context, job T) (R, error)

// msgKind tags messages on the job channel. Shutdown travels as its own
// kind rather than a reserved job value, so any job domain is legal.
type msgKind uint8

const (
	msgJob msgKind = iota
	msgShutdown
)

// message is the inbound wire record: either one job or a shutdown
// signal. Exactly one shutdown is enqueued per worker, after all jobs,
// so each worker (consuming in FIFO order) observes exactly one and
// exits exactly once.
type message[T any] struct {
	kind msgKind
	job  T
}

// ReportKind tags records on the result channel.
type ReportKind uint8

const (
	// ReportResult carries the outcome of one executed job.
	ReportResult ReportKind = iota
	// ReportWorkerDone marks that one worker observed its shutdown
	// message and exited. Draining ends after one marker per worker.
	ReportWorkerDone
)

// Report is the outbound wire record emitted by workers.
type Report[T any, R any] struct {
	Kind   ReportKind
	Job    T
	Value  R
	Err    error
	Worker int
}
