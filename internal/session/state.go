package session

import (
	"time"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/questions"
)

// #region topic

// Topic is what the conversation is currently about: item1 then item2,
// with empty slots dropped. A Topic is either nil or non-empty.
type Topic []string

// NewTopic filters out empty items. It returns nil when nothing is left.
func NewTopic(items ...string) Topic {
	var t Topic
	for _, it := range items {
		if it != "" {
			t = append(t, it)
		}
	}
	return t
}

// #endregion

// #region state

// State is the per-conversation decision state. One State belongs to one
// conversation and is mutated by exactly one turn at a time.
type State struct {
	Depth        int                `json:"depth"`
	Sticky       Topic              `json:"sticky_topic,omitempty"`
	// Plurals remembers grammatical number for the sticky topic's items,
	// which later turns may not mention.
	Plurals      map[string]bool    `json:"sticky_plurals,omitempty"`
	First        Topic              `json:"first_topic,omitempty"`
	Last         Topic              `json:"last_topic,omitempty"`
	LastCategory questions.Category `json:"last_category,omitempty"`
	LastQuestion string             `json:"last_question,omitempty"`
	Iteration    int                `json:"iteration"`
	Sessions     int                `json:"sessions"`
	StartedAt    time.Time          `json:"started_at"`
}

// New returns a fresh state for session zero.
func New(now time.Time) *State {
	return &State{StartedAt: now}
}

// NextSession starts a new session: turn state is cleared and the
// session counter advances.
func (s *State) NextSession(now time.Time) {
	*s = State{Sessions: s.Sessions + 1, StartedAt: now}
}

// #endregion

// #region transitions

// Advance runs at the start of every turn. Depth climbs by one and wraps
// to zero past maxDepth, releasing the sticky topic.
func (s *State) Advance(maxDepth int) {
	s.Depth++
	if s.Depth > maxDepth {
		s.Depth = 0
		s.Sticky = nil
		s.Plurals = nil
	}
}

// AtStart reports whether an empty input should get a welcome rather
// than an "unknown" prompt.
func (s *State) AtStart() bool {
	return s.Iteration <= 1
}

// RecordCanned notes a canned reply given for empty input. Iteration and
// topics are left alone.
func (s *State) RecordCanned(category questions.Category, text string) {
	s.LastCategory = category
	s.LastQuestion = text
}

// BeginTurn counts a non-empty utterance.
func (s *State) BeginTurn() {
	s.Iteration++
}

// Record stores the selection made for a non-empty utterance. The first
// topic is set once; the sticky topic only changes at depth zero or when
// none is held.
func (s *State) Record(template string, category questions.Category, item1, item2 string) {
	s.LastQuestion = template
	s.LastCategory = category
	s.Last = NewTopic(item1, item2)
	if s.First == nil {
		s.First = s.Last
	}
	if s.Depth == 0 || s.Sticky == nil {
		s.Sticky = s.Last
	}
}

// RememberPlurals stores the plurality of each sticky item. This turn's
// extractor answer wins; items it did not cover keep what was learned
// when they entered the topic.
func (s *State) RememberPlurals(items lexicon.ItemSet) {
	if s.Sticky == nil {
		s.Plurals = nil
		return
	}
	kept := make(map[string]bool, len(s.Sticky))
	for _, it := range s.Sticky {
		if plural, ok := items.Plurality(it); ok {
			kept[it] = plural
		} else if s.Plurals[it] {
			kept[it] = true
		}
	}
	s.Plurals = kept
}

// RunTime is how long the current session has been going.
func (s *State) RunTime(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// #endregion
