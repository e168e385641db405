package selector

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/questions"
)

// #region constants

// maxQuestionRedraws bounds the anti-repeat loop; after it the repeat is accepted.
const maxQuestionRedraws = 10

var (
	pluralForms   = agreement{copula: "are", pronoun: "they", object: "them", demonstrative: "those", verb: "happen"}
	singularForms = agreement{copula: "is", pronoun: "that", object: "that", demonstrative: "that", verb: "happens"}

	futureModals = []string{"could", "would"}
	pastModals   = []string{"did", "do", "can"}
)

const presentModal = "do"

// #endregion

// #region types

// Input is everything one selection looks at.
type Input struct {
	Items      lexicon.ItemSet
	Sticky     []string        // held-over topic, may be nil
	Plurals    map[string]bool // remembered plurality of the sticky items
	Previous   string          // raw template text of the last question
	QuoteItems bool
}

// Selection is the filled question plus what produced it.
type Selection struct {
	Text     string             `json:"text"`
	Template string             `json:"template"`
	Category questions.Category `json:"category"`
	Bucket   questions.Bucket   `json:"bucket"`
	Item1    string             `json:"item1,omitempty"`
	Item2    string             `json:"item2,omitempty"`
	Rule     string             `json:"rule"`
}

type agreement struct {
	copula, pronoun, object, demonstrative, verb string
}

// plan is the outcome of bucket selection: candidate buckets and where
// items come from.
type plan struct {
	rule      string
	buckets   []questions.Bucket
	primary   []string
	secondary []string
	twoItems  bool
}

// #endregion

// #region selector

// Selector picks and fills Clean Language questions.
type Selector struct {
	bank   *questions.Bank
	rnd    Rand
	logger *zap.Logger
}

// New creates a Selector. A nil logger is replaced by a no-op logger.
func New(bank *questions.Bank, rnd Rand, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{bank: bank, rnd: rnd, logger: logger.Named("selector")}
}

// Select runs bucket selection, template choice, item choice and
// substitution for one turn.
func (s *Selector) Select(in Input) (Selection, error) {
	p := planFor(in.Items, in.Sticky)

	tmpl, bucket := s.chooseQuestion(p.buckets, in.Previous)
	item1, item2 := s.chooseItems(p.primary, p.secondary, p.twoItems)

	text, err := s.modifyQuestion(tmpl, item1, item2, in)
	if err != nil {
		return Selection{}, fmt.Errorf("fill %s template: %w", bucket, err)
	}

	sel := Selection{
		Text:     text,
		Template: tmpl.Text,
		Category: tmpl.Category,
		Bucket:   bucket,
		Item1:    item1,
		Item2:    item2,
		Rule:     p.rule,
	}
	s.logger.Debug("question selected",
		zap.String("rule", p.rule),
		zap.String("bucket", string(bucket)),
		zap.String("category", string(tmpl.Category)),
		zap.String("item1", item1),
		zap.String("item2", item2),
		zap.Bool("repeat", tmpl.Text == in.Previous),
	)
	return sel, nil
}

// #endregion

// #region bucket-selection

// planFor applies the lexical-richness priority: nouns, then
// adjectives with verbs, adjectives, verbs, named entities, the sticky
// topic, and finally the empty fallback. First match wins.
func planFor(items lexicon.ItemSet, sticky []string) plan {
	nouns := nonEmpty(items.Nouns)
	verbs := nonEmpty(items.Verbs)
	adjs := nonEmpty(items.Adjectives)
	ents := nonEmpty(items.Entities)
	sticky = nonEmpty(sticky)

	const (
		none    = questions.BucketNone
		generic = questions.BucketGeneric
		single  = questions.BucketSingleItem
		two     = questions.BucketTwoItem
		entity  = questions.BucketNamedEntity
	)

	switch {
	case len(nouns) > 1:
		return plan{rule: "a", buckets: []questions.Bucket{none, generic, single, two, single, two},
			primary: nouns, secondary: sticky, twoItems: true}
	case len(nouns) == 1:
		return plan{rule: "b", buckets: []questions.Bucket{none, generic, single},
			primary: concat(nouns, adjs), secondary: sticky}
	case len(adjs) > 0 && len(verbs) > 0:
		return plan{rule: "c", buckets: []questions.Bucket{none, generic, single, two, single},
			primary: concat(verbs, adjs), secondary: sticky, twoItems: true}
	case len(adjs) > 0:
		return plan{rule: "d", buckets: []questions.Bucket{none, generic, single},
			primary: adjs, secondary: sticky, twoItems: true}
	case len(verbs) > 0:
		return plan{rule: "e", buckets: []questions.Bucket{none, generic, single}, primary: verbs}
	case len(ents) > 0:
		return plan{rule: "f", buckets: []questions.Bucket{none, generic, entity, entity}, primary: ents}
	case len(sticky) > 0:
		return plan{rule: "g", buckets: []questions.Bucket{none, single, single}, primary: sticky}
	default:
		return plan{rule: "h", buckets: []questions.Bucket{none}}
	}
}

// #endregion

// #region choose

// chooseQuestion draws a bucket and then a template from it, redrawing
// both while the text matches the previous question.
func (s *Selector) chooseQuestion(buckets []questions.Bucket, previous string) (questions.Template, questions.Bucket) {
	type choice struct {
		tmpl   questions.Template
		bucket questions.Bucket
	}
	c := sampleUntil(
		func() choice {
			b := pick(s.rnd, buckets)
			return choice{tmpl: pick(s.rnd, s.bank.Templates(b)), bucket: b}
		},
		func(c choice) bool { return previous == "" || c.tmpl.Text != previous },
		maxQuestionRedraws,
	)
	return c.tmpl, c.bucket
}

// chooseItems merges the candidate lists and draws item1, then item2
// until it differs from item1, at most len(merged) redraws. A duplicate
// is accepted when the budget runs out.
func (s *Selector) chooseItems(primary, secondary []string, twoItems bool) (string, string) {
	merged := concat(primary, secondary)
	if len(merged) == 0 {
		return "", ""
	}
	item1 := pick(s.rnd, merged)
	if !twoItems {
		return item1, ""
	}
	item2 := sampleUntil(
		func() string { return pick(s.rnd, merged) },
		func(v string) bool { return v != item1 },
		len(merged),
	)
	return item1, item2
}

// #endregion

// #region modify

// modifyQuestion binds items, then plural agreement derived from item1,
// then the modal derived from sentence tense.
func (s *Selector) modifyQuestion(tmpl questions.Template, item1, item2 string, in Input) (string, error) {
	quote := func(v string) string {
		if in.QuoteItems {
			return `"` + v + `"`
		}
		return v
	}

	forms := singularForms
	if item1 != "" && in.plural(item1) {
		forms = pluralForms
	}

	b := questions.Bindings{
		questions.Item1:               quote(item1),
		questions.Item2:               quote(item2),
		questions.Copula:              forms.copula,
		questions.PluralPronoun:       forms.pronoun,
		questions.PluralObject:        forms.object,
		questions.PluralDemonstrative: forms.demonstrative,
		questions.PluralVerb:          forms.verb,
	}
	if tmpl.Has(questions.Modal) {
		b[questions.Modal] = s.modal(in.Items.Tense)
	}
	return tmpl.Fill(b)
}

func (s *Selector) modal(tense lexicon.Tense) string {
	switch tense {
	case lexicon.TenseFuture:
		return pick(s.rnd, futureModals)
	case lexicon.TensePast:
		return pick(s.rnd, pastModals)
	default:
		return presentModal
	}
}

// #endregion

// #region helpers

// plural answers from this turn's items first, then from what was
// remembered when a held-over item entered the topic.
func (in Input) plural(item string) bool {
	if p, ok := in.Items.Plurality(item); ok {
		return p
	}
	return in.Plurals[item]
}

func nonEmpty(xs []string) []string {
	var out []string
	for _, x := range xs {
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// #endregion
