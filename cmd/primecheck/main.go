// Command primecheck tests a batch of large integers for primality
// across isolated workers and reports per-number timings.
//
// The workload is pure CPU, so the isolated substrate is the default:
// every worker can grind on its own core. Passing -shared runs the
// same batch on the shared-memory pool instead, which demonstrates why
// that substrate is the wrong tool for CPU-bound work.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/rahulmenon/batchpool/dispatch"
	"github.com/rahulmenon/batchpool/outcome"
	"github.com/rahulmenon/batchpool/primality"
)

var (
	bold   = color.New(color.Bold)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func main() {
	workers := flag.Int("p", runtime.NumCPU(), "number of workers")
	shared := flag.Bool("shared", false, "use the shared-memory substrate instead of isolated workers")
	pin := flag.Bool("pin", false, "pin isolated workers to CPU cores")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	numbers := primality.Numbers
	kind := dispatch.Isolated
	if *shared {
		kind = dispatch.Shared
	}

	bold.Printf("Checking %d numbers for primality using %d %s workers...\n",
		len(numbers), *workers, kind)

	opts := []dispatch.Option{
		dispatch.WithKind(kind),
		dispatch.WithConcurrency(*workers),
		dispatch.WithJobValidator(primality.ValidateInput),
		dispatch.WithObserver(func(n uint64, res primality.Result, oc outcome.Outcome) {
			if oc.Status != outcome.OK {
				red.Printf("%16d error: %s\n", n, oc.Message)
				return
			}
			label := " "
			if res.Prime {
				label = "P"
			}
			fmt.Printf("%16d %s %9.6fs\n", n, label, res.Elapsed.Seconds())
		}),
	}
	if *pin {
		opts = append(opts, dispatch.WithPinnedWorkers())
	}

	summary, err := dispatch.Run(ctx, numbers, primality.Check, opts...)
	if err != nil {
		red.Fprintf(os.Stderr, "primecheck: %v\n", err)
		os.Exit(1)
	}

	renderSummary(summary)
}

func renderSummary(s dispatch.Summary) {
	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Status", "Count")
	for _, status := range []outcome.Status{outcome.OK, outcome.Error} {
		_ = table.Append(status.String(), fmt.Sprintf("%d", s.Tally[status]))
	}
	if err := table.Render(); err != nil {
		red.Fprintf(os.Stderr, "render summary: %v\n", err)
	}

	bold.Printf("%d checks in %.2fs\n", s.Drained, s.Elapsed.Seconds())
	if s.Interrupted {
		yellow.Printf("interrupted: %d checks abandoned\n", s.Submitted-s.Drained)
	}
}
