//go:build linux

// Package cpu pins worker goroutines to CPU cores where the platform
// allows it. Pinning keeps a CPU-bound worker from migrating between
// cores mid-batch.
package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinWorker locks the calling goroutine to an OS thread and pins that
// thread to the core derived from workerID (modulo the CPU count).
// The returned function releases the thread lock and must be deferred.
func PinWorker(workerID int) func() {
	runtime.LockOSThread()

	core := workerID % runtime.NumCPU()
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)
	// 0 targets the current thread. Failure just means no pinning;
	// the worker still runs.
	_ = unix.SchedSetaffinity(0, &mask)

	return func() {
		runtime.UnlockOSThread()
	}
}
