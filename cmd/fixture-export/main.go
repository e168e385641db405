package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/clive/internal/config"
	"github.com/danielpatrickdp/clive/internal/profile"
	"github.com/danielpatrickdp/clive/internal/replay"
	"github.com/danielpatrickdp/clive/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "clive.db", "path to the SQLite store")
	dbURL := flag.String("database-url", "", "postgres URL; takes precedence over --db")
	sessionID := flag.String("session", "", "session to export")
	last := flag.Int("last", 0, "export only the N most recent turns (0 = all)")
	seed := flag.Uint64("seed", 1, "seed written into the fixture")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *sessionID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --session ID --out path/to/fixture.json [--db path] [--last N] [--seed N]")
		os.Exit(2)
	}

	if err := run(context.Background(), *dbURL, *dbPath, *sessionID, *last, *seed, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(ctx context.Context, dbURL, dbPath, sessionID string, last int, seed uint64, outPath string) error {
	st, err := store.Open(ctx, dbURL, dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	turns, err := st.ListTurns(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list turns: %w", err)
	}
	if len(turns) == 0 {
		return fmt.Errorf("session %s has no stored turns", sessionID)
	}
	if last > 0 && last < len(turns) {
		turns = turns[len(turns)-last:]
	}

	f := buildFixture(sessionID, turns, seed)
	if err := f.Write(outPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d interactions to %s\n", len(f.Interactions), outPath)
	return nil
}

// buildFixture scripts each turn's stored items and expects the stored
// danger and final flags. Canned replies are not stored, so depth and the
// sticky topic can drift on replay; rules are left for the author to fill.
func buildFixture(sessionID string, turns []profile.Turn, seed uint64) *replay.Fixture {
	opts := config.DefaultOptions()
	f := &replay.Fixture{
		Description: fmt.Sprintf("exported from session %s (%d turns)", sessionID, len(turns)),
		Seed:        seed,
		Options:     &opts,
	}
	for _, t := range turns {
		items := t.Items
		f.Interactions = append(f.Interactions, replay.FixtureInteraction{
			TurnID:    t.ID,
			Utterance: t.Original,
			Items:     &items,
		})
		f.ExpectedResults = append(f.ExpectedResults, replay.FixtureExpectedResult{
			TurnID: t.ID,
			Danger: t.Danger,
			Final:  t.Final,
		})
	}
	return f
}

// #endregion extract
