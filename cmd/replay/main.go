package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/coba-ai/drone-agent/internal/decision"
	"github.com/coba-ai/drone-agent/internal/replay"
	"github.com/coba-ai/drone-agent/internal/safety"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to a JSON replay fixture")
	jsonOut := flag.Bool("json", false, "output results as JSON instead of tables")
	summaryOnly := flag.Bool("summary", false, "print only the aggregate summary")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--summary] [--json]")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(1)
	}

	arbiter := safety.NewArbiter(f.Limits())
	maker := decision.NewMaker()
	results := replay.Replay(f.Domain(), arbiter, maker)
	summary := replay.Summarize(results)

	if *jsonOut {
		if err := printJSON(struct {
			Description string          `json:"description,omitempty"`
			Results     []replay.Result `json:"results"`
			Summary     replay.Summary  `json:"summary"`
		}{f.Description, results, summary}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if f.Description != "" {
			fmt.Printf("fixture: %s\n\n", f.Description)
		}
		if !*summaryOnly {
			printResults(results)
			fmt.Println()
		}
		printSummary(summary)
	}

	if len(f.ExpectedResults) > 0 {
		diffs := compare(results, f.ExpectedResults)
		if !*jsonOut {
			fmt.Println()
			printComparison(results, f.ExpectedResults)
		}
		if diffs > 0 {
			fmt.Fprintf(os.Stderr, "\n%d frame(s) diverged from expected results\n", diffs)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region tables

func printResults(results []replay.Result) {
	fmt.Printf("%-12s  %-10s  %-10s  %-16s  %s\n", "Frame", "Outcome", "Action", "Rule", "Reason")
	for _, r := range results {
		fmt.Printf("%-12s  %-10s  %-10s  %-16s  %s\n",
			r.FrameID, r.Provenance, orDash(r.Action), orDash(r.Advisory.Parameter), r.Decision.Reason)
	}
}

func printSummary(s replay.Summary) {
	fmt.Printf("frames: %d  approved: %d  modified: %d  rejected: %d\n",
		s.TotalFrames, s.Approved, s.Modified, s.Rejected)
	for param, n := range s.ByParameter {
		fmt.Printf("  rule %s fired on %d frame(s)\n", param, n)
	}
}

// #endregion tables

// #region comparison

// compare counts frames whose outcome diverges from the fixture's
// expectation. Expected actions are only checked when provided.
func compare(results []replay.Result, expected []replay.FixtureExpectedResult) int {
	byID := make(map[string]replay.Result, len(results))
	for _, r := range results {
		byID[r.FrameID] = r
	}

	diffs := 0
	for _, exp := range expected {
		r, ok := byID[exp.FrameID]
		if !ok {
			diffs++
			continue
		}
		if string(r.Provenance) != exp.Provenance {
			diffs++
			continue
		}
		if exp.Action != "" && r.Action != exp.Action {
			diffs++
		}
	}
	return diffs
}

func printComparison(results []replay.Result, expected []replay.FixtureExpectedResult) {
	byID := make(map[string]replay.Result, len(results))
	for _, r := range results {
		byID[r.FrameID] = r
	}

	fmt.Printf("%-12s  %-10s  %-10s  %s\n", "Frame", "Expected", "Got", "Match")
	for _, exp := range expected {
		r, ok := byID[exp.FrameID]
		if !ok {
			fmt.Printf("%-12s  %-10s  %-10s  %s\n", exp.FrameID, exp.Provenance, "missing", "DIFF")
			continue
		}
		match := "OK"
		if string(r.Provenance) != exp.Provenance || (exp.Action != "" && r.Action != exp.Action) {
			match = "DIFF"
		}
		fmt.Printf("%-12s  %-10s  %-10s  %s\n", exp.FrameID, exp.Provenance, r.Provenance, match)
	}
}

// #endregion comparison

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// #endregion output
