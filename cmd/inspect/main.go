package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/clive/internal/profile"
	"github.com/danielpatrickdp/clive/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "clive.db", "path to the SQLite store")
	dbURL := flag.String("database-url", "", "postgres URL; takes precedence over --db")
	last := flag.Int("last", 20, "show N most recent sessions")
	session := flag.String("session", "", "show one session's turns")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	ctx := context.Background()
	st, err := store.Open(ctx, *dbURL, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *session != "" {
		err = runDetailMode(ctx, st, *session, *jsonOut)
	} else {
		err = runListMode(ctx, st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID        string   `json:"id"`
	Coach     string   `json:"coach"`
	Sessions  int      `json:"sessions"`
	Iteration int      `json:"iteration"`
	Depth     int      `json:"depth"`
	First     []string `json:"first_topic"`
	Sticky    []string `json:"sticky_topic"`
	UpdatedAt string   `json:"updated_at"`
}

func runListMode(ctx context.Context, st store.Store, last int, jsonOut bool) error {
	recs, err := st.ListSessions(ctx, last)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	rows := make([]listRow, len(recs))
	for i, r := range recs {
		rows[i] = listRow{
			ID:        r.ID,
			Coach:     r.Coach,
			Sessions:  r.State.Sessions,
			Iteration: r.State.Iteration,
			Depth:     r.State.Depth,
			First:     r.State.First,
			Sticky:    r.State.Sticky,
			UpdatedAt: r.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s| %-8s| %4s| %5s| %5s| %-20s| %-20s| %s\n",
		"Session", "Coach", "Sess", "Iter", "Depth", "First", "Sticky", "Updated")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range rows {
		fmt.Printf("%-10s| %-8s| %4d| %5d| %5d| %-20s| %-20s| %s\n",
			shortID(r.ID), r.Coach, r.Sessions, r.Iteration, r.Depth,
			clip(strings.Join(r.First, ","), 20), clip(strings.Join(r.Sticky, ","), 20), r.UpdatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailRow struct {
	ID       string         `json:"id"`
	Depth    int            `json:"depth"`
	Bucket   string         `json:"bucket"`
	Category string         `json:"category"`
	Original string         `json:"original"`
	Reply    string         `json:"reply"`
	Danger   bool           `json:"danger"`
	Final    bool           `json:"final"`
	Scores   profile.Scores `json:"scores"`
}

func runDetailMode(ctx context.Context, st store.Store, id string, jsonOut bool) error {
	rec, err := st.GetSession(ctx, id)
	if err != nil {
		return err
	}
	turns, err := st.ListTurns(ctx, id)
	if err != nil {
		return err
	}

	rows := make([]detailRow, len(turns))
	for i, t := range turns {
		rows[i] = detailRow{
			ID:       t.ID,
			Depth:    t.Depth,
			Bucket:   string(t.Bucket),
			Category: string(t.Category),
			Original: t.Original,
			Reply:    t.Reply,
			Danger:   t.Danger,
			Final:    t.Final,
			Scores:   t.Scores,
		}
	}
	if jsonOut {
		return printJSON(map[string]any{"session": rec, "turns": rows})
	}

	fmt.Printf("Session %s (%s), %d sessions, iteration %d\n\n", rec.ID, rec.Coach, rec.State.Sessions, rec.State.Iteration)
	for _, r := range rows {
		flags := ""
		if r.Danger {
			flags += " DANGER"
		}
		if r.Final {
			flags += " final"
		}
		fmt.Printf("[%s] depth=%d %s/%s affect=%+.2f%s\n", r.ID, r.Depth, r.Bucket, r.Category, r.Scores.Affect, flags)
		fmt.Printf("  user:  %s\n", r.Original)
		fmt.Printf("  coach: %s\n\n", r.Reply)
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-1] + "~"
	}
	return s
}

// #endregion helpers
