// Package pool provides a bounded, shared-memory worker pool for running
// a fixed batch of independent jobs.
//
// The pool runs at most K worker goroutines sharing process memory. Jobs
// are pulled from a bounded ready queue in submission order; each worker
// invokes the job function synchronously and stores the result (or the
// captured failure) directly into the job's Pending handle, then signals
// completion. No serialization is involved: workers share memory with
// the caller, so ownership of the result simply transfers through the
// handle.
//
// # Basic Usage
//
//	p, err := pool.New[string, []byte](fetchOne, pool.WithWorkerCount(30))
//	if err != nil {
//	    return err
//	}
//	defer p.Shutdown()
//
//	p.SubmitAll(ctx, codes)
//	for pending := range p.Drain() {
//	    value, err := pending.Get()
//	    // completion order, not submission order
//	}
//
// Drain yields handles in completion order, which depends on per-job
// execution time and must not be relied upon. Shutdown joins every
// worker and is required on all paths, including when a drain is
// abandoned early by cancellation.
//
// A CPU-bound job function gains no extra parallel throughput from a
// larger K here beyond the cores the runtime already schedules; the
// pool's win is bounding concurrent I/O-bound or externally-blocking
// work. For CPU-bound batches use the isolated substrate in package
// procpool.
package pool
