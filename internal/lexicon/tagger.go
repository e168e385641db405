package lexicon

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// #region tag-sets

// auxiliaries are verb forms that carry tense or agreement rather than
// content. They still count towards tense.
var auxiliaries = map[string]bool{
	"am": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "'m": true, "'re": true, "'s": true,
	"do": true, "does": true, "did": true,
}

var futureModals = map[string]bool{
	"will": true, "shall": true, "'ll": true, "wo": true,
}

// #endregion tag-sets

// #region tagger

// Tagger is the in-process Extractor. It runs prose's averaged-perceptron
// part-of-speech tagger and its entity recognizer, so it needs the
// sentence with its capitals intact. Nouns, verbs and adjectives come back
// lowercased; entities keep their case.
type Tagger struct{}

// NewTagger returns a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Extract tags one sentence. Proper nouns that belong to a recognized
// entity are reported as entities only.
func (t *Tagger) Extract(ctx context.Context, sentence string) (ItemSet, error) {
	if err := ctx.Err(); err != nil {
		return ItemSet{}, err
	}
	set := ItemSet{Plurals: map[string]bool{}, Tense: TensePresent}
	if strings.TrimSpace(sentence) == "" {
		return set, nil
	}

	doc, err := prose.NewDocument(sentence, prose.WithSegmentation(false))
	if err != nil {
		return ItemSet{}, fmt.Errorf("tag sentence: %w", err)
	}

	inEntity := map[string]bool{}
	for _, ent := range doc.Entities() {
		set.Entities = append(set.Entities, ent.Text)
		for _, w := range strings.Fields(ent.Text) {
			inEntity[w] = true
		}
	}

	toks := doc.Tokens()
	set.Tense = tenseOf(toks)
	for _, tok := range toks {
		word := strings.ToLower(tok.Text)
		switch {
		case strings.HasPrefix(tok.Tag, "NNP") && inEntity[tok.Text]:
		case strings.HasPrefix(tok.Tag, "NN"):
			set.Nouns = append(set.Nouns, word)
			set.Plurals[word] = tok.Tag == "NNS" || tok.Tag == "NNPS"
		case strings.HasPrefix(tok.Tag, "VB"):
			if !auxiliaries[word] {
				set.Verbs = append(set.Verbs, word)
			}
		case strings.HasPrefix(tok.Tag, "JJ"):
			set.Adjectives = append(set.Adjectives, word)
		}
	}
	return set, nil
}

// #endregion tagger

// #region tense

// tenseOf reads tense off the tags: a future modal or "going to" plus a
// base verb is future, then any past-tense verb is past.
func tenseOf(toks []prose.Token) Tense {
	for i, tok := range toks {
		word := strings.ToLower(tok.Text)
		if tok.Tag == "MD" && futureModals[word] {
			return TenseFuture
		}
		if word == "going" && i+2 < len(toks) &&
			strings.ToLower(toks[i+1].Text) == "to" && toks[i+2].Tag == "VB" {
			return TenseFuture
		}
	}
	for _, tok := range toks {
		if tok.Tag == "VBD" {
			return TensePast
		}
	}
	return TensePresent
}

// #endregion tense
