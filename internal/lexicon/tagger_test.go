package lexicon

import (
	"context"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func extract(t *testing.T, sentence string) ItemSet {
	t.Helper()
	set, err := NewTagger().Extract(context.Background(), sentence)
	if err != nil {
		t.Fatalf("Extract(%q): %v", sentence, err)
	}
	return set
}

func TestTagger_PartsOfSpeech(t *testing.T) {
	set := extract(t, "Go is an open-source programming language created at Google.")
	if diff := cmp.Diff([]string{"programming", "language"}, set.Nouns); diff != "" {
		t.Errorf("nouns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"created"}, set.Verbs); diff != "" {
		t.Errorf("verbs, auxiliaries dropped (-want +got):\n%s", diff)
	}
	if !slices.Contains(set.Adjectives, "open-source") {
		t.Errorf("adjectives: %v", set.Adjectives)
	}
}

func TestTagger_EntitiesKeepCase(t *testing.T) {
	set := extract(t, "Lebron James plays basketball in Los Angeles.")
	if diff := cmp.Diff([]string{"Lebron James", "Los Angeles"}, set.Entities); diff != "" {
		t.Errorf("entities (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"basketball"}, set.Nouns); diff != "" {
		t.Errorf("entity words should not be nouns (-want +got):\n%s", diff)
	}
	if !slices.Contains(set.Verbs, "plays") {
		t.Errorf("verbs: %v", set.Verbs)
	}
}

func TestTagger_Plurals(t *testing.T) {
	set := extract(t, "I feel angry about the new rules")
	if !slices.Contains(set.Nouns, "rules") {
		t.Fatalf("nouns: %v", set.Nouns)
	}
	if !set.IsPlural("rules") {
		t.Error("expected rules to be plural")
	}
	if p, known := set.Plurality("angry"); p || known {
		t.Errorf("adjective should have no plurality answer, got %v %v", p, known)
	}
}

func TestTagger_Tense(t *testing.T) {
	tests := []struct {
		sentence string
		want     Tense
		verb     string
	}{
		{"I will go tomorrow", TenseFuture, "go"},
		{"I am going to leave", TenseFuture, "leave"},
		{"It was a hard day", TensePast, ""},
		{"I want peace", TensePresent, "want"},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			set := extract(t, tt.sentence)
			if set.Tense != tt.want {
				t.Errorf("tense: got %q, want %q", set.Tense, tt.want)
			}
			if tt.verb != "" && !slices.Contains(set.Verbs, tt.verb) {
				t.Errorf("verbs %v missing %q", set.Verbs, tt.verb)
			}
		})
	}
}

func TestTagger_Empty(t *testing.T) {
	set := extract(t, "   ")
	if !set.Empty() || set.Tense != TensePresent {
		t.Errorf("expected empty present set, got %+v", set)
	}
}

func TestTagger_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTagger().Extract(ctx, "I will go"); err == nil {
		t.Error("expected context error")
	}
}
