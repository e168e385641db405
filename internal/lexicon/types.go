package lexicon

import "context"

// #region tense

// Tense is the sentence-level tense classification.
type Tense string

const (
	TensePresent Tense = "present"
	TensePast    Tense = "past"
	TenseFuture  Tense = "future"
)

// ParseTense maps a wire value onto a Tense, defaulting to present.
func ParseTense(s string) Tense {
	switch Tense(s) {
	case TensePast:
		return TensePast
	case TenseFuture:
		return TenseFuture
	default:
		return TensePresent
	}
}

// #endregion tense

// #region item-set

// ItemSet holds the lexical items extracted from one cleaned utterance.
// Slices keep sentence order and may contain duplicates.
type ItemSet struct {
	Nouns      []string        `json:"nouns"`
	Verbs      []string        `json:"verbs"`
	Adjectives []string        `json:"adjectives"`
	Entities   []string        `json:"entities"`
	Plurals    map[string]bool `json:"plurals,omitempty"` // noun phrase -> grammatically plural
	Tense      Tense           `json:"tense"`
}

// IsPlural reports whether phrase was marked plural by the extractor.
// Phrases the extractor never saw are singular.
func (s ItemSet) IsPlural(phrase string) bool {
	return s.Plurals[phrase]
}

// Plurality reports the extractor's answer for phrase and whether it gave
// one at all.
func (s ItemSet) Plurality(phrase string) (plural, known bool) {
	plural, known = s.Plurals[phrase]
	return plural, known
}

// Empty reports whether no items of any category were found.
func (s ItemSet) Empty() bool {
	return len(s.Nouns) == 0 && len(s.Verbs) == 0 && len(s.Adjectives) == 0 && len(s.Entities) == 0
}

// #endregion item-set

// #region extractor

// Extractor supplies part-of-speech, entity, tense and plurality data for a
// normalized sentence. Implementations: Tagger (in-process) and the gRPC
// sidecar client in package codec.
type Extractor interface {
	Extract(ctx context.Context, sentence string) (ItemSet, error)
}

// #endregion extractor
