package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/coba-ai/drone-agent/internal/memory"
	"github.com/coba-ai/drone-agent/internal/persist"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to drone_agent.db")
	last := flag.Int("last", 20, "show N most recent records")
	tag := flag.String("tag", "", "filter memory records by tag")
	text := flag.String("text", "", "relevance-search memory records")
	missionID := flag.String("mission", "", "show experiences for one mission")
	checkpoints := flag.Bool("checkpoints", false, "show saved checkpoints")
	quality := flag.String("quality", "", "show historical action quality for a context (e.g. cruise)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/drone_agent.db [--last N] [--tag t] [--text q] [--mission id] [--checkpoints] [--quality ctx] [--json]")
		os.Exit(2)
	}

	store, err := persist.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	long, err := memory.NewLongTerm(store.DB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open memory: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *checkpoints:
		err = runCheckpoints(store, *jsonOut)
	case *quality != "":
		err = runQuality(long, *quality, *jsonOut)
	case *missionID != "":
		err = runExperiences(long, *missionID, *last, *jsonOut)
	default:
		err = runMemory(long, *text, *tag, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region memory-mode

func runMemory(long *memory.LongTerm, text, tag string, last int, jsonOut bool) error {
	entries, err := long.Search(memory.Query{Text: text, Tag: tag, Limit: last})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no records found")
		return nil
	}
	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-10s  %-20s  %-36s  %s\n", "Kind", "Time", "Mission", "Text")
	for _, e := range entries {
		fmt.Printf("%-10s  %-20s  %-36s  %s\n",
			e.Kind, e.CreatedAt.Format("2006-01-02T15:04:05Z"), orDash(e.MissionID), e.Text)
	}
	return nil
}

// #endregion memory-mode

// #region experience-mode

func runExperiences(long *memory.LongTerm, missionID string, last int, jsonOut bool) error {
	rows, err := long.Experiences(last, missionID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no experiences found")
		return nil
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-20s  %-10s  %-8s  %8s  %s\n", "Time", "Context", "Action", "Reward", "Terminal")
	for _, r := range rows {
		fmt.Printf("%-20s  %-10s  %-8s  %8.2f  %v\n",
			r.CreatedAt.Format("2006-01-02T15:04:05Z"), r.Context, r.Action, r.Reward, r.Terminal)
	}
	return nil
}

// #endregion experience-mode

// #region quality-mode

func runQuality(long *memory.LongTerm, context string, jsonOut bool) error {
	quality, err := long.ActionQuality(context)
	if err != nil {
		return err
	}
	if len(quality) == 0 {
		fmt.Fprintln(os.Stderr, "no action history for context")
		return nil
	}
	if jsonOut {
		return printJSON(quality)
	}

	fmt.Printf("%-12s  %s\n", "Action", "Quality")
	for action, q := range quality {
		fmt.Printf("%-12s  %.4f\n", action, q)
	}
	return nil
}

// #endregion quality-mode

// #region checkpoint-mode

type checkpointRow struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

func runCheckpoints(store *persist.Store, jsonOut bool) error {
	rows, err := store.DB().Query(`SELECT name, LENGTH(blob) FROM checkpoints ORDER BY name`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var out []checkpointRow
	for rows.Next() {
		var r checkpointRow
		if err := rows.Scan(&r.Name, &r.Bytes); err != nil {
			return err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(out) == 0 {
		fmt.Fprintln(os.Stderr, "no checkpoints found")
		return nil
	}
	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("%-20s  %s\n", "Name", "Bytes")
	for _, r := range out {
		fmt.Printf("%-20s  %d\n", r.Name, r.Bytes)
	}
	return nil
}

// #endregion checkpoint-mode

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
