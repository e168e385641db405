package special

import "github.com/danielpatrickdp/clive/internal/language"

// #region types

// Specials flags the conditions the front end must act on.
type Specials struct {
	Danger bool `json:"danger"` // crisis language
	Final  bool `json:"final"`  // the user is ending the conversation
}

// #endregion types

// #region detector

// Detector scans tokens against crisis and quit word lists.
type Detector struct {
	danger map[string]bool
	quit   map[string]bool
}

// NewDetector builds a Detector from the built-in lists plus any extra words.
func NewDetector(extraDanger, extraQuit []string) *Detector {
	d := &Detector{danger: map[string]bool{}, quit: map[string]bool{}}
	for _, w := range append(append([]string{}, language.DangerWords...), extraDanger...) {
		d.danger[w] = true
	}
	for _, w := range append(append([]string{}, language.QuitWords...), extraQuit...) {
		d.quit[w] = true
	}
	return d
}

// Detect reports whether any token is a danger or quit word. Tokens are
// expected to be lowercased already.
func (d *Detector) Detect(tokens []string) Specials {
	var s Specials
	for _, tok := range tokens {
		if d.danger[tok] {
			s.Danger = true
		}
		if d.quit[tok] {
			s.Final = true
		}
	}
	return s
}

// #endregion detector
