package selector

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/questions"
)

// smallBank has two NONE templates so anti-repeat can be observed.
func smallBank(t *testing.T) *questions.Bank {
	t.Helper()
	b, err := questions.NewBank(map[questions.Bucket][]questions.Template{
		questions.BucketNone: {
			questions.MustParse("and what happens next?", questions.CategorySequence),
			questions.MustParse("and is there anything else?", questions.CategoryAttributes),
		},
		questions.BucketGeneric:     {questions.MustParse("and whereabouts {MODAL} you feel {PLURAL_OBJECT}?", questions.CategoryLocation)},
		questions.BucketSingleItem:  {questions.MustParse("and what kind of {ITEM1} {COPULA} {PLURAL_PRONOUN}?", questions.CategoryAttributes)},
		questions.BucketTwoItem:     {questions.MustParse("and when {ITEM1}, what happens to {ITEM2}?", questions.CategoryRelationship)},
		questions.BucketNamedEntity: {questions.MustParse("and what would {ITEM1} like to have happen?", questions.CategoryIntention)},
	})
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	return b
}

func TestSampleUntil(t *testing.T) {
	calls := 0
	got := sampleUntil(func() int { calls++; return calls }, func(v int) bool { return v == 3 }, 10)
	if got != 3 || calls != 3 {
		t.Errorf("got %d after %d calls, want 3 after 3", got, calls)
	}

	calls = 0
	got = sampleUntil(func() int { calls++; return 7 }, func(v int) bool { return false }, 4)
	if got != 7 || calls != 5 {
		t.Errorf("exhausted budget: got %d after %d calls, want 7 after 5", got, calls)
	}
}

func TestPlanFor_Priority(t *testing.T) {
	const (
		none    = questions.BucketNone
		generic = questions.BucketGeneric
		single  = questions.BucketSingleItem
		two     = questions.BucketTwoItem
		entity  = questions.BucketNamedEntity
	)
	tests := []struct {
		name    string
		items   lexicon.ItemSet
		sticky  []string
		rule    string
		buckets []questions.Bucket
		two     bool
	}{
		{"many-nouns", lexicon.ItemSet{Nouns: []string{"job", "boss"}, Verbs: []string{"hate"}}, nil,
			"a", []questions.Bucket{none, generic, single, two, single, two}, true},
		{"one-noun", lexicon.ItemSet{Nouns: []string{"job"}, Verbs: []string{"worried"}}, nil,
			"b", []questions.Bucket{none, generic, single}, false},
		{"adjective-and-verb", lexicon.ItemSet{Verbs: []string{"feel"}, Adjectives: []string{"angry"}}, nil,
			"c", []questions.Bucket{none, generic, single, two, single}, true},
		{"adjective", lexicon.ItemSet{Adjectives: []string{"angry"}}, nil,
			"d", []questions.Bucket{none, generic, single}, true},
		{"verb", lexicon.ItemSet{Verbs: []string{"running"}}, []string{"job"},
			"e", []questions.Bucket{none, generic, single}, false},
		{"entity", lexicon.ItemSet{Entities: []string{"sarah"}}, []string{"job"},
			"f", []questions.Bucket{none, generic, entity, entity}, false},
		{"sticky", lexicon.ItemSet{}, []string{"job"},
			"g", []questions.Bucket{none, single, single}, false},
		{"nothing", lexicon.ItemSet{}, nil,
			"h", []questions.Bucket{none}, false},
		{"empty-strings-ignored", lexicon.ItemSet{Nouns: []string{"", "job"}}, []string{""},
			"b", []questions.Bucket{none, generic, single}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := planFor(tt.items, tt.sticky)
			if p.rule != tt.rule {
				t.Errorf("rule: got %s, want %s", p.rule, tt.rule)
			}
			if diff := cmp.Diff(tt.buckets, p.buckets); diff != "" {
				t.Errorf("buckets (-want +got):\n%s", diff)
			}
			if p.twoItems != tt.two {
				t.Errorf("twoItems: got %v, want %v", p.twoItems, tt.two)
			}
		})
	}
}

func TestPlanFor_ItemSources(t *testing.T) {
	p := planFor(lexicon.ItemSet{Nouns: []string{"job"}, Adjectives: []string{"new"}, Verbs: []string{"start"}}, []string{"boss"})
	if diff := cmp.Diff([]string{"job", "new", "boss"}, concat(p.primary, p.secondary)); diff != "" {
		t.Errorf("one-noun candidates (-want +got):\n%s", diff)
	}
	p = planFor(lexicon.ItemSet{Verbs: []string{"start"}}, []string{"boss"})
	if diff := cmp.Diff([]string{"start"}, concat(p.primary, p.secondary)); diff != "" {
		t.Errorf("verb-only candidates must ignore sticky (-want +got):\n%s", diff)
	}
}

func TestChooseQuestion_AntiRepeatMissThenHit(t *testing.T) {
	// bucket draw, template draw: first pair hits the previous text, second does not.
	seq := NewSequence(0, 0, 0, 1)
	s := New(smallBank(t), seq, nil)

	sel, err := s.Select(Input{Previous: "and what happens next?"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template == "and what happens next?" {
		t.Fatal("expected anti-repeat to move off the previous question")
	}
	if sel.Text != "and is there anything else?" {
		t.Errorf("got %q", sel.Text)
	}
	if seq.Drawn() != 4 {
		t.Errorf("expected exactly one redraw (4 values), drew %d", seq.Drawn())
	}
}

func TestChooseQuestion_AcceptsRepeatWhenBudgetRunsOut(t *testing.T) {
	seq := NewSequence(0)
	s := New(smallBank(t), seq, nil)

	sel, err := s.Select(Input{Previous: "and what happens next?"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template != "and what happens next?" {
		t.Errorf("expected the repeat to be accepted, got %q", sel.Template)
	}
	if want := 2 * (1 + maxQuestionRedraws); seq.Drawn() != want {
		t.Errorf("drew %d values, want %d", seq.Drawn(), want)
	}
}

func TestChooseItems_Distinct(t *testing.T) {
	// item1 = merged[0]; item2 draws 0 (dup) then 1.
	s := New(smallBank(t), NewSequence(0, 0, 1), nil)
	a, b := s.chooseItems([]string{"job", "boss"}, nil, true)
	if a != "job" || b != "boss" {
		t.Errorf("got (%q, %q), want (job, boss)", a, b)
	}
}

func TestChooseItems_DuplicateAcceptedAfterBound(t *testing.T) {
	seq := NewSequence(0)
	s := New(smallBank(t), seq, nil)
	a, b := s.chooseItems([]string{"job", "job"}, nil, true)
	if a != "job" || b != "job" {
		t.Errorf("got (%q, %q)", a, b)
	}
	// one draw for item1, one for item2, then len(merged) redraws
	if seq.Drawn() != 4 {
		t.Errorf("drew %d values, want 4", seq.Drawn())
	}
}

func TestChooseItems_Empty(t *testing.T) {
	s := New(smallBank(t), NewSequence(0), nil)
	if a, b := s.chooseItems(nil, nil, true); a != "" || b != "" {
		t.Errorf("got (%q, %q), want empty", a, b)
	}
}

func TestSelect_PluralAgreement(t *testing.T) {
	// bucket index 2 = SINGLE_ITEM for rule b, template 0, item 0.
	s := New(smallBank(t), NewSequence(2, 0, 0), nil)
	items := lexicon.ItemSet{Nouns: []string{"rules"}, Plurals: map[string]bool{"rules": true}}

	sel, err := s.Select(Input{Items: items, QuoteItems: true})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if want := `and what kind of "rules" are they?`; sel.Text != want {
		t.Errorf("got %q, want %q", sel.Text, want)
	}
	if sel.Bucket != questions.BucketSingleItem || sel.Item1 != "rules" || sel.Rule != "b" {
		t.Errorf("unexpected selection %+v", sel)
	}
}

func TestSelect_HeldOverItemKeepsPlural(t *testing.T) {
	// Rule g: bucket index 1 = SINGLE_ITEM, template 0, item 0.
	tests := []struct {
		name  string
		items lexicon.ItemSet
		want  string
	}{
		{"remembered", lexicon.ItemSet{}, `and what kind of "dogs" are they?`},
		{"this turn overrides", lexicon.ItemSet{Plurals: map[string]bool{"dogs": false}}, `and what kind of "dogs" is that?`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(smallBank(t), NewSequence(1, 0, 0), nil)
			sel, err := s.Select(Input{
				Items:      tt.items,
				Sticky:     []string{"dogs"},
				Plurals:    map[string]bool{"dogs": true},
				QuoteItems: true,
			})
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if sel.Rule != "g" || sel.Text != tt.want {
				t.Errorf("got rule %s %q, want g %q", sel.Rule, sel.Text, tt.want)
			}
		})
	}
}

func TestSelect_SingularUnquoted(t *testing.T) {
	s := New(smallBank(t), NewSequence(2, 0, 0), nil)
	sel, err := s.Select(Input{Items: lexicon.ItemSet{Nouns: []string{"job"}}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if want := "and what kind of job is that?"; sel.Text != want {
		t.Errorf("got %q, want %q", sel.Text, want)
	}
}

func TestModal_ByTense(t *testing.T) {
	tmpl := questions.MustParse("and whereabouts {MODAL} you feel {PLURAL_OBJECT}?", questions.CategoryLocation)
	tests := []struct {
		tense lexicon.Tense
		seq   []int
		want  string
	}{
		{lexicon.TensePresent, []int{1}, "and whereabouts do you feel that?"},
		{lexicon.TenseFuture, []int{0}, "and whereabouts could you feel that?"},
		{lexicon.TenseFuture, []int{1}, "and whereabouts would you feel that?"},
		{lexicon.TensePast, []int{0}, "and whereabouts did you feel that?"},
		{lexicon.TensePast, []int{2}, "and whereabouts can you feel that?"},
	}
	for _, tt := range tests {
		s := New(smallBank(t), NewSequence(tt.seq...), nil)
		got, err := s.modifyQuestion(tmpl, "", "", Input{Items: lexicon.ItemSet{Tense: tt.tense}})
		if err != nil {
			t.Fatalf("modifyQuestion: %v", err)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.tense, got, tt.want)
		}
	}
}

func TestModifyQuestion_PlaceholderCompleteness(t *testing.T) {
	bank := questions.DefaultBank()
	s := New(bank, NewRand(1), nil)
	for _, bucket := range questions.AllBuckets {
		for _, tmpl := range bank.Templates(bucket) {
			for _, plural := range []bool{false, true} {
				for _, tense := range []lexicon.Tense{lexicon.TensePresent, lexicon.TensePast, lexicon.TenseFuture} {
					for _, quote := range []bool{false, true} {
						in := Input{
							Items:      lexicon.ItemSet{Plurals: map[string]bool{"rules": plural}, Tense: tense},
							QuoteItems: quote,
						}
						got, err := s.modifyQuestion(tmpl, "rules", "worried", in)
						if err != nil {
							t.Fatalf("%s %q: %v", bucket, tmpl.Text, err)
						}
						if questions.ContainsPlaceholder(got) || strings.ContainsAny(got, "{}") {
							t.Errorf("%s %q left symbols: %q", bucket, tmpl.Text, got)
						}
					}
				}
			}
		}
	}
}

func TestSelect_DefaultBankAlwaysComplete(t *testing.T) {
	s := New(questions.DefaultBank(), NewRand(42), nil)
	inputs := []lexicon.ItemSet{
		{Nouns: []string{"job", "boss"}, Plurals: map[string]bool{"boss": false}},
		{Nouns: []string{"job"}, Verbs: []string{"worried"}},
		{Verbs: []string{"feel"}, Adjectives: []string{"angry"}, Tense: lexicon.TensePast},
		{Entities: []string{"sarah"}, Tense: lexicon.TenseFuture},
		{},
	}
	prev := ""
	for i := 0; i < 200; i++ {
		sel, err := s.Select(Input{Items: inputs[i%len(inputs)], Sticky: []string{"work"}, Previous: prev, QuoteItems: true})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if questions.ContainsPlaceholder(sel.Text) {
			t.Fatalf("placeholder survived: %q", sel.Text)
		}
		if sel.Text == "" || sel.Template == "" || sel.Category == "" {
			t.Fatalf("incomplete selection %+v", sel)
		}
		prev = sel.Template
	}
}

func TestSequence_Cycles(t *testing.T) {
	s := NewSequence(5, 1)
	got := []int{s.IntN(3), s.IntN(3), s.IntN(10)}
	if diff := cmp.Diff([]int{2, 1, 5}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
