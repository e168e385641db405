package reflection

import (
	"strings"

	"github.com/danielpatrickdp/clive/internal/language"
	"github.com/danielpatrickdp/clive/internal/lexicon"
)

// Connective opens every reflection unless trimmed.
const Connective = "and "

// #region build

// Build rewrites tokens into a person-swapped restatement ("i am happy" ->
// "and you are happy"). With trimConnective set the leading "and " is omitted.
func Build(tokens []string, trimConnective bool) string {
	return BuildAfter(tokens, "", trimConnective)
}

// BuildAfter is Build with the previous word seeded, for reflections that
// continue an earlier phrase.
//
// A "you" that follows a preposition becomes "I", any other "you" becomes
// "me". This is linguistically backwards in places ("to you" -> "to I") and
// is kept as-is because replies and fixtures depend on it.
func BuildAfter(tokens []string, prevWord string, trimConnective bool) string {
	var b strings.Builder
	if !trimConnective {
		b.WriteString(Connective)
	}
	prev := prevWord
	for _, tok := range tokens {
		if !lexicon.IsWord(tok) {
			b.WriteString(tok)
			b.WriteByte(' ')
			continue
		}
		word := tok
		switch {
		case tok == "you":
			if language.Prepositions[prev] {
				word = "I"
			} else {
				word = "me"
			}
		case tok == "us" && language.Prepositions[prev]:
			word = "you"
		default:
			if swapped, ok := language.Pronouns[tok]; ok {
				word = swapped
			}
		}
		prev = word
		b.WriteString(word)
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

// #endregion build
