package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/clive/internal/config"
	"github.com/danielpatrickdp/clive/internal/lexicon"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Seed            uint64                  `json:"seed"`
	Options         *config.Options         `json:"options,omitempty"`
	Interactions    []FixtureInteraction    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureInteraction is one utterance. When Items is set the extractor is
// bypassed and those items are used verbatim.
type FixtureInteraction struct {
	TurnID    string           `json:"turn_id"`
	Utterance string           `json:"utterance"`
	Items     *lexicon.ItemSet `json:"items,omitempty"`
}

// FixtureExpectedResult captures what a turn should produce. Empty fields
// are not checked.
type FixtureExpectedResult struct {
	TurnID   string `json:"turn_id"`
	Rule     string `json:"rule,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
	Category string `json:"category,omitempty"`
	Danger   bool   `json:"danger,omitempty"`
	Final    bool   `json:"final,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Write stores the fixture as indented JSON.
func (f *Fixture) Write(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToInteraction converts a FixtureInteraction to a domain Interaction.
func (fi *FixtureInteraction) ToInteraction() Interaction {
	return Interaction{TurnID: fi.TurnID, Utterance: fi.Utterance, Items: fi.Items}
}

// ReplayConfig returns the seed and options for a run, filling defaults.
func (f *Fixture) ReplayConfig() ReplayConfig {
	cfg := DefaultReplayConfig()
	cfg.Seed = f.Seed
	if f.Options != nil {
		cfg.Options = *f.Options
	}
	return cfg
}

// DomainInteractions converts every fixture interaction.
func (f *Fixture) DomainInteractions() []Interaction {
	out := make([]Interaction, len(f.Interactions))
	for i := range f.Interactions {
		out[i] = f.Interactions[i].ToInteraction()
	}
	return out
}

// #endregion fixture-loader
