package logging

import "time"

// #region decision-entry
// DecisionEntry is a single row in the decision_log table.
type DecisionEntry struct {
	TurnID     string
	SessionID  string
	Rule       string // bucket-selection rule "a".."h"
	Bucket     string
	Category   string
	Template   string
	Repeat     bool // the anti-repeat budget ran out
	RecordJSON string
	CreatedAt  time.Time
}
// #endregion decision-entry

// #region selection-record
// SelectionRecord captures everything that fed one question selection.
// Serialized as JSON into decision_log.record_json for replay.
type SelectionRecord struct {
	TurnID   string `json:"turn_id"`
	Original string `json:"original"`
	Cleaned  string `json:"cleaned"`
	Depth    int    `json:"depth"`

	// Lexical items as extracted
	Nouns      []string `json:"nouns"`
	Verbs      []string `json:"verbs"`
	Adjectives []string `json:"adjectives"`
	Entities   []string `json:"entities"`
	Tense      string   `json:"tense"`

	// Conversation state consulted
	Sticky   []string `json:"sticky,omitempty"`
	Previous string   `json:"previous,omitempty"`

	// Selection output
	Rule     string `json:"rule"`
	Bucket   string `json:"bucket"`
	Category string `json:"category"`
	Template string `json:"template"`
	Item1    string `json:"item1,omitempty"`
	Item2    string `json:"item2,omitempty"`
	Question string `json:"question"`
}
// #endregion selection-record
