package dispatch

import (
	"time"

	"github.com/rahulmenon/batchpool/outcome"
)

// Tally counts drained outcomes by category. It is owned and mutated by
// the single drain loop inside Run; nothing else ever touches it.
type Tally map[outcome.Status]int

// Total returns the number of outcomes counted. Equal to the number of
// submitted jobs whenever the run was not interrupted.
func (t Tally) Total() int {
	n := 0
	for _, count := range t {
		n += count
	}
	return n
}

// Summary is the aggregate result of one batch run.
type Summary struct {
	// Tally holds the per-category counts of every drained job.
	Tally Tally
	// Submitted is the batch size handed to Run.
	Submitted int
	// Drained is how many completions were actually consumed. Less
	// than Submitted only when the run was interrupted or a worker was
	// lost; the difference is the number of abandoned jobs.
	Drained int
	// Elapsed is wall-clock time from first submission to last drain.
	Elapsed time.Duration
	// Interrupted records that cancellation stopped the drain early.
	Interrupted bool
}
