//go:build !linux && !windows

// Package cpu pins worker goroutines to CPU cores where the platform
// allows it.
package cpu

import "runtime"

// PinWorker locks the calling goroutine to an OS thread. Core pinning
// is not available on this platform (macOS offers no thread affinity
// API), so the thread lock is the best isolation we can give a worker.
// The returned function releases the lock and must be deferred.
func PinWorker(int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
