package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/danielpatrickdp/clive/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	seed := flag.Uint64("seed", 0, "override the fixture seed")
	verbose := flag.Bool("v", false, "print every reply")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--seed N] [-v]")
		os.Exit(2)
	}
	os.Exit(run(*fixturePath, *seed, *verbose))
}

// #endregion main

// #region run

func run(path string, seed uint64, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	cfg := f.ReplayConfig()
	if seed != 0 {
		cfg.Seed = seed
	}

	results, err := replay.Replay(context.Background(), f.DomainInteractions(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	printTable(results, verbose)
	printSummary(replay.Summarize(results))

	mismatches := replay.Check(results, f.ExpectedResults)
	for _, m := range mismatches {
		fmt.Printf("DIFF %s\n", m)
	}
	fmt.Printf("\n%d turns, %d mismatches\n", len(results), len(mismatches))
	if len(mismatches) > 0 {
		return 1
	}
	return 0
}

// #endregion run

// #region output

func printTable(results []replay.ReplayResult, verbose bool) {
	fmt.Printf("%-8s| %-5s| %-13s| %-22s| %s\n", "Turn", "Rule", "Bucket", "Category", "Flags")
	fmt.Printf("%-8s+%-6s+%-14s+%-23s+%s\n", "--------", "------", "--------------", "-----------------------", "------")
	for _, r := range results {
		flags := ""
		if r.Canned {
			flags += "canned "
		}
		if r.Repeat {
			flags += "repeat "
		}
		if r.Danger {
			flags += "DANGER "
		}
		if r.Final {
			flags += "final "
		}
		if r.Err != nil {
			flags += "error: " + r.Err.Error()
		}
		fmt.Printf("%-8s| %-5s| %-13s| %-22s| %s\n", r.TurnID, r.Rule, r.Bucket, r.Category, flags)
		if verbose {
			fmt.Printf("        > %s\n", r.Reply)
		}
	}
}

func printSummary(s replay.ReplaySummary) {
	fmt.Printf("\nSummary: %d total, %d canned, %d danger, %d final, %d repeats, %d errors\n",
		s.TotalTurns, s.Canned, s.Dangers, s.Finals, s.Repeats, s.Errors)
	rules := make([]string, 0, len(s.ByRule))
	for r := range s.ByRule {
		rules = append(rules, r)
	}
	sort.Strings(rules)
	for _, r := range rules {
		fmt.Printf("  rule %s: %d\n", r, s.ByRule[r])
	}
}

// #endregion output
