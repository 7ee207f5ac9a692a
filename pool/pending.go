package pool

// Pending represents one in-flight job. The pool owns the handle until
// the job completes; completion transfers ownership of the stored value
// and error to whoever receives the handle from Drain.
//
// A handle whose job is abandoned by cancellation before a worker picks
// it up never completes; Get on such a handle blocks forever. The
// dispatcher only consumes handles that were actually drained, so this
// only concerns callers holding on to the SubmitAll return value across
// a cancellation.
type Pending[T any, R any] struct {
	job   T
	value R
	err   error
	done  chan struct{}
}

func newPending[T any, R any](job T) *Pending[T, R] {
	return &Pending[T, R]{done: make(chan struct{}), job: job}
}

// Job returns the input this handle was created for.
func (p *Pending[T, R]) Job() T {
	return p.job
}

// Get blocks until the job has completed, then returns its payload and
// error. Handles received from Drain are always complete, so Get does
// not block for them.
func (p *Pending[T, R]) Get() (R, error) {
	<-p.done
	return p.value, p.err
}

// Completed reports whether the job has finished without blocking.
func (p *Pending[T, R]) Completed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// complete stores the result and signals completion. Called exactly once,
// by the worker that ran the job.
func (p *Pending[T, R]) complete(value R, err error) {
	p.value = value
	p.err = err
	close(p.done)
}
