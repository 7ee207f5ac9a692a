// Package procpool provides a bounded worker pool whose workers are
// isolated from each other and from the caller: no handle, no shared
// mutable object, no future. The job channel and the result channel are
// the only points of contact, exactly as if each worker ran in its own
// address space.
//
// # Protocol
//
// SubmitAll enqueues every job onto the job channel followed by exactly
// one shutdown message per worker. Shutdown is a tagged message kind,
// not a reserved job value, so no input domain has to sacrifice a
// "magic" value to the protocol. Each worker loops: dequeue a message;
// on shutdown, emit a worker-done marker on the result channel and
// exit; otherwise run the job function and emit a result report.
//
// Drain forwards every report in arrival order and terminates once it
// has observed one done marker per worker. Because workers are
// independent, the interleaving of results and markers is arbitrary;
// only the totals are guaranteed: N results and W markers for N jobs
// and W workers, provided no worker is lost.
//
// A lost worker (a job function that never returns and ignores its
// context) would block the drain forever under the base protocol.
// WithDrainTimeout hardens this: if no report arrives within the
// window, draining fails with ErrWorkerLost instead of hanging.
//
// Workers here truly run in parallel for CPU-bound job functions: each
// worker is a goroutine the scheduler can place on its own core, and
// WithPinnedWorkers additionally pins each worker's OS thread to a CPU.
package procpool
