// Command flagfetch downloads country-flag images with bounded
// concurrency and reports a tally of download outcomes.
//
// Usage:
//
//	flagfetch [flags] [CC ...]
//
// With no country-code arguments it fetches the flags of the 20 most
// populous countries. Per-flag status lines are printed with -v;
// otherwise a progress bar tracks completions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/rahulmenon/batchpool/dispatch"
	"github.com/rahulmenon/batchpool/fetchflag"
	"github.com/rahulmenon/batchpool/outcome"
	"github.com/rahulmenon/batchpool/pool"
)

const defaultConcurrency = 30

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func main() {
	baseURL := flag.String("b", fetchflag.DefaultBaseURL, "base URL for flag images")
	concurrency := flag.Int("c", defaultConcurrency, fmt.Sprintf("concurrent downloads (1-%d)", pool.MaxWorkers))
	destDir := flag.String("d", "downloaded", "directory to save images into (empty to skip saving)")
	isolated := flag.Bool("i", false, "run on the isolated worker substrate")
	ratePerSec := flag.Float64("r", 0, "max downloads per second (0 for unlimited)")
	verbose := flag.Bool("v", false, "print one status line per flag")
	flag.Parse()

	if *concurrency < 1 || *concurrency > pool.MaxWorkers {
		red.Fprintf(os.Stderr, "concurrency must be between 1 and %d\n", pool.MaxWorkers)
		os.Exit(2)
	}

	codes := fetchflag.Pop20
	if args := flag.Args(); len(args) > 0 {
		codes = make([]string, len(args))
		for i, arg := range args {
			codes[i] = strings.ToUpper(arg)
		}
	}

	// Ctrl-C stops draining; jobs already tallied stay counted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := fetchflag.New(*baseURL, *destDir)

	var bar *progressbar.ProgressBar
	if !*verbose {
		bar = progressbar.NewOptions(len(codes),
			progressbar.OptionSetDescription("Downloading flags"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
		)
	}

	opts := []dispatch.Option{
		dispatch.WithConcurrency(*concurrency),
		dispatch.WithObserver(func(cc string, _ []byte, oc outcome.Outcome) {
			if bar != nil {
				_ = bar.Add(1)
				return
			}
			switch oc.Status {
			case outcome.OK:
				green.Printf("%s %s\n", cc, oc.Message)
			case outcome.NotFound:
				yellow.Printf("%s %s\n", cc, oc.Message)
			default:
				red.Printf("%s error: %s\n", cc, oc.Message)
			}
		}),
	}
	if *isolated {
		opts = append(opts, dispatch.WithKind(dispatch.Isolated))
	}
	if *ratePerSec > 0 {
		opts = append(opts, dispatch.WithRateLimit(*ratePerSec, *concurrency))
	}

	summary, err := dispatch.Run(ctx, codes, fetcher.Fetch, opts...)
	if err != nil {
		red.Fprintf(os.Stderr, "flagfetch: %v\n", err)
		os.Exit(1)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	renderSummary(summary)
}

func renderSummary(s dispatch.Summary) {
	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Status", "Count")
	for _, status := range []outcome.Status{outcome.OK, outcome.NotFound, outcome.Error} {
		_ = table.Append(status.String(), fmt.Sprintf("%d", s.Tally[status]))
	}
	if err := table.Render(); err != nil {
		red.Fprintf(os.Stderr, "render summary: %v\n", err)
	}

	bold.Printf("%d flags processed in %.2fs\n", s.Tally.Total(), s.Elapsed.Seconds())
	if s.Interrupted {
		yellow.Printf("interrupted: %d downloads abandoned\n", s.Submitted-s.Drained)
	}
}
