package profile

import (
	"context"

	"github.com/danielpatrickdp/clive/internal/lexicon"
)

// #region keywords

var (
	pastMarkers    = toSet("was", "were", "had", "did", "yesterday", "ago", "used", "before", "last")
	futureMarkers  = toSet("will", "shall", "gonna", "tomorrow", "soon", "next", "going", "plan", "hope")
	positiveWords  = toSet("happy", "good", "great", "love", "glad", "calm", "hopeful", "better", "fine", "excited", "proud", "grateful", "enjoy", "safe")
	negativeWords  = toSet("sad", "bad", "angry", "worried", "afraid", "anxious", "hate", "upset", "tired", "stressed", "lonely", "hurt", "worse", "awful")
	intensifiers   = toSet("very", "really", "so", "extremely", "totally", "completely", "always", "never", "absolutely", "utterly")
	optimismTokens = toSet("can", "will", "better", "hope", "possible", "improve", "try", "able", "could")
)

// wellbeingWords maps each PERMA dimension to its indicator words.
var wellbeingWords = map[string]map[string]bool{
	PosPositiveEmotion: toSet("happy", "joy", "glad", "love", "calm", "grateful"),
	PosEngagement:      toSet("interested", "focused", "absorbed", "curious", "engaged", "flow"),
	PosRelationships:   toSet("friend", "friends", "family", "together", "partner", "team", "support"),
	PosMeaning:         toSet("purpose", "meaning", "matters", "important", "values", "believe"),
	PosAccomplishment:  toSet("achieved", "finished", "won", "succeeded", "proud", "done"),
	NegPositiveEmotion: toSet("sad", "angry", "afraid", "anxious", "upset", "miserable"),
	NegEngagement:      toSet("bored", "distracted", "stuck", "numb", "restless", "tired"),
	NegRelationships:   toSet("alone", "lonely", "ignored", "argue", "fight", "rejected"),
	NegMeaning:         toSet("pointless", "meaningless", "useless", "empty", "lost", "hopeless"),
	NegAccomplishment:  toSet("failed", "failing", "quit", "lost", "behind", "mistake"),
}

// #endregion keywords

// #region heuristic

// Heuristic scores utterances from keyword rates. It has no model for age
// or gender and leaves them at zero.
type Heuristic struct{}

// NewHeuristic creates a keyword scorer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Score computes keyword-rate scores. Empty input scores zero everywhere.
func (h *Heuristic) Score(_ context.Context, sentence string) (Scores, error) {
	words := wordsOf(sentence)
	if len(words) == 0 {
		return Scores{Wellbeing: map[string]float64{}}, nil
	}
	n := float64(len(words))

	var past, future, pos, neg, intense, opt float64
	for _, w := range words {
		switch {
		case pastMarkers[w]:
			past++
		case futureMarkers[w]:
			future++
		}
		if positiveWords[w] {
			pos++
		}
		if negativeWords[w] {
			neg++
		}
		if intensifiers[w] {
			intense++
		}
		if optimismTokens[w] {
			opt++
		}
	}

	s := Scores{
		Temporal:  orientation(past, future),
		Affect:    clampSigned((pos - neg) / n * 4),
		Intensity: clamp(intense/n*4 + (pos+neg)/n),
		Optimism:  clampSigned((opt + pos - neg) / n * 3),
		Wellbeing: make(map[string]float64, len(wellbeingWords)),
	}
	for dim, set := range wellbeingWords {
		hits := 0.0
		for _, w := range words {
			if set[w] {
				hits++
			}
		}
		s.Wellbeing[dim] = clamp(hits / n * 4)
	}
	return s, nil
}

// #endregion heuristic

// #region helpers

// orientation splits weight between past, present and future. Sentences
// without markers are fully present.
func orientation(past, future float64) Temporal {
	total := past + future
	if total == 0 {
		return Temporal{Present: 1}
	}
	present := 1.0 / (1 + total)
	rest := 1 - present
	return Temporal{
		Past:    rest * past / total,
		Present: present,
		Future:  rest * future / total,
	}
}

func wordsOf(sentence string) []string {
	var out []string
	for _, tok := range lexicon.Tokenize(lexicon.Clean(sentence), false) {
		if lexicon.IsWord(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// #endregion helpers
