// Command jobshop exposes the workbench's seven-row algorithm selector
// table over files: read a problem, run the named solver, write the
// schedule.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/katalvlaran/jobshop/bb"
	"github.com/katalvlaran/jobshop/ioformat"
	"github.com/katalvlaran/jobshop/scheduler"
)

type selector struct {
	name      string
	algo      scheduler.Algorithm
	format    ioformat.Format
	hasThread bool
}

var selectors = map[string]selector{
	"greedy-ea":      {name: "greedy-ea", algo: scheduler.SequentialEA, format: ioformat.Verbose},
	"greedy-spt":     {name: "greedy-spt", algo: scheduler.SequentialSPT, format: ioformat.Verbose},
	"greedy-par":     {name: "greedy-par", algo: scheduler.ParallelGreedy, format: ioformat.Verbose, hasThread: true},
	"bb-seq":         {name: "bb-seq", algo: scheduler.SequentialBB, format: ioformat.StartOnly},
	"bb-par":         {name: "bb-par", algo: scheduler.ParallelBB, format: ioformat.StartOnly, hasThread: true},
	"sb-seq":         {name: "sb-seq", algo: scheduler.SequentialSB, format: ioformat.Verbose},
	"sb-par":         {name: "sb-par", algo: scheduler.ParallelSB, format: ioformat.Verbose, hasThread: true},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()

		return 2
	}

	sel, ok := selectors[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "jobshop: unknown selector %q\n", args[0])
		usage()

		return 2
	}

	fs := flag.NewFlagSet(sel.name, flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "print per-run diagnostics (nodes explored / rounds executed) to stderr")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	minArgs := 2
	if sel.hasThread {
		minArgs = 3
	}
	rest := fs.Args()
	if len(rest) < minArgs {
		fmt.Fprintf(os.Stderr, "jobshop: %s requires %d arguments\n", sel.name, minArgs)

		return 2
	}

	opts := scheduler.Options{}
	switch sel.name {
	case "bb-seq":
		opts.NodeBudget = bb.DefaultSequentialNodeBudget
	case "bb-par":
		opts.NodeBudget = bb.DefaultParallelNodeBudget
	}
	if sel.hasThread {
		threads, err := parseThreads(rest[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "jobshop: bad thread count %q\n", rest[2])

			return 2
		}
		opts.Workers = threads
	}

	if err := execute(sel, rest[0], rest[1], opts, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "jobshop: %v\n", err)

		return 1
	}

	return 0
}

func execute(sel selector, inputPath, outputPath string, opts scheduler.Options, verbose bool) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	p, err := ioformat.ParseProblem(in)
	if err != nil {
		return err
	}

	res, err := scheduler.Run(p, sel.algo, opts)
	if err != nil {
		return err
	}

	if verbose {
		printStats(sel.name, res)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return ioformat.WriteSchedule(out, res.Schedule, p, sel.format)
}

// printStats reports the diagnostics carried in res.Stats, if any, to
// stderr — the only consumer of scheduler.Stats in the workbench.
func printStats(name string, res scheduler.Result) {
	if res.Stats == nil {
		fmt.Fprintf(os.Stderr, "[%s] no diagnostics for this selector\n", name)

		return
	}
	switch {
	case res.Stats.NodesSeen > 0:
		fmt.Fprintf(os.Stderr, "[%s] explored %d nodes, exhausted=%t\n", name, res.Stats.NodesSeen, res.Exhausted)
	case res.Stats.Rounds > 0:
		fmt.Fprintf(os.Stderr, "[%s] ran %d rounds\n", name, res.Stats.Rounds)
	}
}

func parseThreads(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("thread count must be positive")
	}

	return n, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jobshop <selector> [-verbose] input output [threads]")
	fmt.Fprintln(os.Stderr, "selectors: greedy-ea, greedy-spt, greedy-par, bb-seq, bb-par, sb-seq, sb-par")
}
