package replay

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/clive/internal/coach"
	"github.com/danielpatrickdp/clive/internal/config"
	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/selector"
)

// #region types
// Interaction represents a single recorded utterance for replay.
type Interaction struct {
	TurnID    string
	Utterance string
	Items     *lexicon.ItemSet // scripted items; nil uses the fallback extractor
}

// ReplayConfig holds what a replay run needs beyond the interactions.
type ReplayConfig struct {
	Seed    uint64
	Options config.Options
	// Extractor handles interactions without scripted items. Nil uses the
	// in-process tagger.
	Extractor lexicon.Extractor
}

// DefaultReplayConfig returns seed 1 and the stock options.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{Seed: 1, Options: config.DefaultOptions()}
}

// ReplayResult captures the outcome of replaying one interaction.
type ReplayResult struct {
	TurnID   string
	Reply    string
	Rule     string // "" for canned replies
	Bucket   string
	Category string
	Template string
	Depth    int
	Danger   bool
	Final    bool
	Canned   bool
	Repeat   bool // the template matched the previous question
	Err      error
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTurns int
	Canned     int
	Dangers    int
	Finals     int
	Repeats    int
	Errors     int
	ByRule     map[string]int
	ByCategory map[string]int
}

// Mismatch is one expectation a replay did not meet.
type Mismatch struct {
	TurnID string
	Field  string
	Want   string
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s want %q got %q", m.TurnID, m.Field, m.Want, m.Got)
}

// #endregion types

// #region scripted-extractor
// scripted hands out the next interaction's items, falling back when none
// were scripted.
type scripted struct {
	next     *lexicon.ItemSet
	fallback lexicon.Extractor
}

func (s *scripted) Extract(ctx context.Context, sentence string) (lexicon.ItemSet, error) {
	if s.next != nil {
		return *s.next, nil
	}
	return s.fallback.Extract(ctx, sentence)
}

// #endregion scripted-extractor

// #region replay
// Replay runs interactions through a fresh Coach seeded from config.
// Operates entirely in-memory.
func Replay(ctx context.Context, interactions []Interaction, cfg ReplayConfig) ([]ReplayResult, error) {
	fallback := cfg.Extractor
	if fallback == nil {
		fallback = lexicon.NewTagger()
	}
	ext := &scripted{fallback: fallback}
	c, err := coach.New(
		coach.WithOptions(cfg.Options),
		coach.WithExtractor(ext),
		coach.WithRand(selector.NewRand(cfg.Seed)),
	)
	if err != nil {
		return nil, fmt.Errorf("replay coach: %w", err)
	}

	results := make([]ReplayResult, 0, len(interactions))
	for _, inter := range interactions {
		ext.next = inter.Items
		previous := c.State().LastQuestion
		resp, err := c.Respond(ctx, inter.Utterance)
		r := ReplayResult{TurnID: inter.TurnID, Err: err}
		if err == nil {
			r.Reply = resp.Reply
			r.Category = string(resp.Category)
			r.Danger = resp.Danger
			r.Final = resp.Final
			r.Canned = resp.Canned()
			r.Depth = c.State().Depth
			if sel := resp.Selection; sel != nil {
				r.Rule = sel.Rule
				r.Bucket = string(sel.Bucket)
				r.Template = sel.Template
				r.Repeat = previous != "" && sel.Template == previous
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{
		TotalTurns: len(results),
		ByRule:     map[string]int{},
		ByCategory: map[string]int{},
	}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errors++
			continue
		case r.Canned:
			s.Canned++
		default:
			s.ByRule[r.Rule]++
		}
		s.ByCategory[r.Category]++
		if r.Danger {
			s.Dangers++
		}
		if r.Final {
			s.Finals++
		}
		if r.Repeat {
			s.Repeats++
		}
	}
	return s
}

// Check compares results with expectations by position.
func Check(results []ReplayResult, expected []FixtureExpectedResult) []Mismatch {
	var out []Mismatch
	if len(results) != len(expected) {
		out = append(out, Mismatch{Field: "turns", Want: fmt.Sprint(len(expected)), Got: fmt.Sprint(len(results))})
	}
	for i := 0; i < len(results) && i < len(expected); i++ {
		got, want := results[i], expected[i]
		add := func(field, w, g string) {
			if w != "" && w != g {
				out = append(out, Mismatch{TurnID: want.TurnID, Field: field, Want: w, Got: g})
			}
		}
		add("turn_id", want.TurnID, got.TurnID)
		add("rule", want.Rule, got.Rule)
		add("bucket", want.Bucket, got.Bucket)
		add("category", want.Category, got.Category)
		if want.Danger != got.Danger {
			out = append(out, Mismatch{TurnID: want.TurnID, Field: "danger", Want: fmt.Sprint(want.Danger), Got: fmt.Sprint(got.Danger)})
		}
		if want.Final != got.Final {
			out = append(out, Mismatch{TurnID: want.TurnID, Field: "final", Want: fmt.Sprint(want.Final), Got: fmt.Sprint(got.Final)})
		}
		if got.Err != nil {
			out = append(out, Mismatch{TurnID: want.TurnID, Field: "error", Got: got.Err.Error()})
		}
	}
	return out
}

// #endregion replay
