// Package primality tests large integers for primality. It is the
// CPU-bound collaborator for the dispatcher: Check has the job-function
// shape and the pool-side validator can use ValidateInput to refuse
// inputs outside the supported domain.
package primality

import (
	"context"
	"errors"
	"time"
)

// ErrNonPositive rejects inputs outside the job domain. Historically a
// zero input doubled as a shutdown signal in queue-based process pools,
// so zero is refused outright rather than reported as "not prime".
var ErrNonPositive = errors.New("primality: input must be a positive integer")

// Result is the outcome of one primality check.
type Result struct {
	N       uint64
	Prime   bool
	Elapsed time.Duration
}

// Numbers is the demo batch: ten large primes interleaved with ten
// composites of similar magnitude, so per-check times are comparable.
var Numbers = []uint64{
	2,
	142702110479723,
	299593572317531,
	3333333333333301,
	3333333333333333,
	3333335652092209,
	4444444444444423,
	4444444444444444,
	4444444488888889,
	5555553133149889,
	5555555555555503,
	5555555555555555,
	6666666666666666,
	6666666666666719,
	6666667141414921,
	7777777536340681,
	7777777777777753,
	7777777777777777,
	9999999999999917,
	9999999999999999,
}

// IsPrime reports whether n is prime by trial division over odd
// divisors up to the square root. Deterministic and CPU-bound; a check
// of a 16-digit prime takes on the order of seconds.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}

	// i <= n/i avoids overflowing i*i near the top of the range.
	for i := uint64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// Check runs the primality test for n and measures how long it took.
// It has the job-function shape; the context is accepted for interface
// compatibility but not consulted, the test itself being a single
// uninterruptible computation.
func Check(_ context.Context, n uint64) (Result, error) {
	if err := ValidateInput(n); err != nil {
		return Result{}, err
	}

	start := time.Now()
	prime := IsPrime(n)
	return Result{N: n, Prime: prime, Elapsed: time.Since(start)}, nil
}

// ValidateInput reports whether n is inside the job domain.
func ValidateInput(n uint64) error {
	if n == 0 {
		return ErrNonPositive
	}
	return nil
}
