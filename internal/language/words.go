package language

// #region pronouns

// Pronouns maps a first/second person form to its reflected counterpart.
// "you" and "us" are not listed; they depend on the preceding word.
var Pronouns = map[string]string{
	"i":        "you",
	"am":       "are",
	"your":     "my",
	"me":       "you",
	"myself":   "yourself",
	"yourself": "myself",
	"my":       "your",
	"mine":     "yours",
	"yours":    "mine",
	"i'm":      "you're",
	"you're":   "I'm",
}

// #endregion pronouns

// #region prepositions

// Prepositions decide how "you" and "us" are reflected.
var Prepositions = toSet([]string{
	"aboard", "about", "above", "across", "after", "against", "along",
	"amid", "among", "anti", "around", "as", "at", "before", "behind",
	"below", "beneath", "beside", "besides", "between", "beyond", "but",
	"by", "concerning", "considering", "despite", "down", "during",
	"except", "excepting", "excluding", "following", "for", "from", "in",
	"inside", "into", "like", "minus", "near", "of", "off", "on", "onto",
	"opposite", "outside", "over", "past", "per", "plus", "regarding",
	"round", "save", "since", "than", "through", "to", "toward", "towards",
	"under", "underneath", "unlike", "until", "up", "upon", "versus", "via",
	"with", "within", "without",
})

// #endregion prepositions

// #region special-words

// DangerWords flag crisis language.
var DangerWords = []string{
	"suicide",
}

// QuitWords flag the end of a conversation.
var QuitWords = []string{
	"goodbye",
}

// #endregion special-words

// #region stopwords

// StopWords are dropped from the token stream when stop word removal is on.
var StopWords = toSet([]string{
	"a", "about", "after", "all", "also", "am", "an", "and", "another",
	"any", "are", "as", "at", "be", "because", "been", "before", "being",
	"between", "both", "but", "by", "came", "can", "come", "could", "did",
	"do", "each", "for", "from", "get", "got", "has", "had", "he", "have",
	"her", "here", "him", "himself", "his", "how", "i", "if", "in", "into",
	"is", "it", "like", "make", "many", "me", "might", "more", "most",
	"much", "must", "my", "never", "now", "of", "on", "only", "or", "other",
	"our", "out", "over", "said", "same", "see", "should", "since", "some",
	"still", "such", "take", "than", "that", "the", "their", "them", "then",
	"there", "these", "they", "this", "those", "through", "to", "too",
	"under", "up", "very", "was", "way", "we", "well", "were", "what",
	"where", "which", "while", "who", "with", "would", "you", "your",
})

// #endregion stopwords

// #region canned-replies

// Welcomes open a session when the user has not said anything yet.
var Welcomes = []string{
	"Hello there, and what would you like to have happen?",
	"Welcome to the session. What would you like to have happen?",
}

// Unknowns answer an empty utterance mid-session.
var Unknowns = []string{
	"I didn't quite understand that, try rewording it.",
	"I'm sorry, I didn't understand that. Please try again.",
}

// Finals close a session after a quit word.
var Finals = []string{
	"Goodbye.  It was nice talking to you.",
	"Goodbye.  This was really a nice talk.",
	"Goodbye.  I'm looking forward to our next session.",
	"This was a good session, wasn't it -- but time is over now. Goodbye.",
	"Maybe we could discuss this further in our next session ? Goodbye.",
}

// #endregion canned-replies

// #region helpers

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// #endregion helpers
