package questions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTemplate is returned when a template or bank breaks the
// placeholder rules for its bucket.
var ErrMalformedTemplate = errors.New("malformed question template")

// ErrUnbound is returned by Fill when a placeholder has no binding.
var ErrUnbound = errors.New("unbound placeholder")

// #region placeholder

// Placeholder is a slot inside a question template. Templates spell them
// as {NAME}, e.g. "and what kind of {ITEM1} {COPULA} {PLURAL_PRONOUN}?".
type Placeholder int

const (
	Item1 Placeholder = iota + 1
	Item2
	Copula
	PluralPronoun
	PluralObject
	PluralDemonstrative
	PluralVerb
	Modal
)

// AllPlaceholders lists every placeholder in substitution order.
var AllPlaceholders = []Placeholder{
	Item1, Item2, Copula, PluralPronoun, PluralObject, PluralDemonstrative, PluralVerb, Modal,
}

var placeholderNames = map[Placeholder]string{
	Item1:               "ITEM1",
	Item2:               "ITEM2",
	Copula:              "COPULA",
	PluralPronoun:       "PLURAL_PRONOUN",
	PluralObject:        "PLURAL_OBJECT",
	PluralDemonstrative: "PLURAL_DEMONSTRATIVE",
	PluralVerb:          "PLURAL_VERB",
	Modal:               "MODAL",
}

func (p Placeholder) String() string {
	if name, ok := placeholderNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Placeholder(%d)", int(p))
}

// Token is the placeholder as it appears in template text.
func (p Placeholder) Token() string {
	return "{" + p.String() + "}"
}

// ParsePlaceholder looks up a placeholder by name (without braces).
func ParsePlaceholder(name string) (Placeholder, bool) {
	for p, n := range placeholderNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// #endregion placeholder

// #region template

// Category names the Clean Language question family a template belongs to.
type Category string

const (
	CategoryIntention           Category = "intention"
	CategoryAttributes          Category = "attributes"
	CategorySequence            Category = "sequence"
	CategoryNecessaryConditions Category = "necessary conditions"
	CategoryLocation            Category = "location"
	CategoryMetaphor            Category = "metaphor"
	CategorySource              Category = "source"
	CategoryRelationship        Category = "relationship"

	// Canned replies to empty input.
	CategoryWelcome Category = "welcome"
	CategoryUnknown Category = "unknown"
)

// segment is either literal text or a single placeholder.
type segment struct {
	text string
	ph   Placeholder
}

// Template is an immutable, pre-parsed question template.
type Template struct {
	Text     string
	Category Category
	segments []segment
}

// Parse splits text into literal and placeholder segments. An unknown
// {NAME} or an unterminated brace is rejected.
func Parse(text string, category Category) (Template, error) {
	t := Template{Text: text, Category: category}
	rest := text
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.segments = append(t.segments, segment{text: rest})
			break
		}
		if open > 0 {
			t.segments = append(t.segments, segment{text: rest[:open]})
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return Template{}, fmt.Errorf("%w: unterminated placeholder in %q", ErrMalformedTemplate, text)
		}
		name := rest[open+1 : open+end]
		ph, ok := ParsePlaceholder(name)
		if !ok {
			return Template{}, fmt.Errorf("%w: unknown placeholder {%s} in %q", ErrMalformedTemplate, name, text)
		}
		t.segments = append(t.segments, segment{ph: ph})
		rest = rest[open+end+1:]
	}
	return t, nil
}

// MustParse is Parse for built-in templates; it panics on error.
func MustParse(text string, category Category) Template {
	t, err := Parse(text, category)
	if err != nil {
		panic(err)
	}
	return t
}

// Has reports whether the template uses p at least once.
func (t Template) Has(p Placeholder) bool {
	for _, s := range t.segments {
		if s.ph == p {
			return true
		}
	}
	return false
}

// Placeholders returns the distinct placeholders used, in substitution order.
func (t Template) Placeholders() []Placeholder {
	var out []Placeholder
	for _, p := range AllPlaceholders {
		if t.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Bindings maps placeholders to their replacement text.
type Bindings map[Placeholder]string

// Fill substitutes every placeholder. Every placeholder the template uses
// must be bound, so the result never contains template symbols.
func (t Template) Fill(b Bindings) (string, error) {
	var sb strings.Builder
	for _, s := range t.segments {
		if s.ph == 0 {
			sb.WriteString(s.text)
			continue
		}
		v, ok := b[s.ph]
		if !ok {
			return "", fmt.Errorf("%w: %s in %q", ErrUnbound, s.ph, t.Text)
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// #endregion template

// ContainsPlaceholder reports whether s still carries any placeholder token.
func ContainsPlaceholder(s string) bool {
	for _, p := range AllPlaceholders {
		if strings.Contains(s, p.Token()) {
			return true
		}
	}
	return false
}
