package pool

import "context"

// JobFunc is the unit of work both substrates execute. It takes a
// context for cancellation control and one job input, returning the
// job's payload or an error.
//
// Failures belonging to the outcome taxonomy (absent resource,
// transport fault, protocol status) should be returned as the
// corresponding error kinds from package outcome so the dispatcher can
// classify them. A JobFunc is invoked at most once per job: the pools
// never retry or re-execute speculatively.
//
// Type parameters:
//   - T: the job input type
//   - R: the payload type produced on success
type JobFunc[T any, R any] func(ctx context.Context, job T) (R, error)
