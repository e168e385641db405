package lexicon

import (
	"regexp"
	"strings"

	"github.com/danielpatrickdp/clive/internal/language"
)

// #region patterns

var (
	// tokenPattern finds word-like units: urls, handles, hashtags, words with
	// inner apostrophes or hyphens, numbers, ellipses, then any other symbol.
	tokenPattern = regexp.MustCompile(`(?i)(?:https?://\S+)|(?:@[\w_]+)|(?:#+[\w_]+[\w'_\-]*[\w_]+)|(?:[a-z][a-z'\-_]+[a-z])|(?:[+\-]?\d+[,/.:\-]\d+[+\-]?)|(?:[\w_]+)|(?:\.(?:\s*\.)+)|(?:\S)`)

	wordPattern = regexp.MustCompile(`\w`)

	quoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'", "“", `"`, "”", `"`,
		"–", "-", "—", "-", "…", "...",
	)
)

// #endregion patterns

// #region clean

// Normalize folds typographic quotes and dashes to ASCII and collapses
// runs of whitespace. Case is kept for entity recognition.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(quoteReplacer.Replace(raw)), " ")
}

// Clean is Normalize followed by lowercasing.
func Clean(raw string) string {
	return strings.ToLower(Normalize(raw))
}

// #endregion clean

// #region tokenize

// Tokenize splits a cleaned string into word and punctuation tokens.
// With removeStopWords set, stop words are dropped.
func Tokenize(cleaned string, removeStopWords bool) []string {
	if cleaned == "" {
		return nil
	}
	tokens := tokenPattern.FindAllString(cleaned, -1)
	if !removeStopWords {
		return tokens
	}
	kept := tokens[:0]
	for _, t := range tokens {
		if language.StopWords[t] {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// IsWord reports whether a token contains at least one word character.
func IsWord(token string) bool {
	return wordPattern.MatchString(token)
}

// #endregion tokenize
