package selector

import "math/rand/v2"

// #region rand

// Rand is the single random source behind every selection. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG-backed source. A zero seed draws one at random.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sequence replays fixed values, each taken modulo n. It cycles when
// exhausted and is meant for tests and replays that need exact draws.
type Sequence struct {
	Values []int
	pos    int
}

// NewSequence builds a Sequence over values.
func NewSequence(values ...int) *Sequence {
	return &Sequence{Values: values}
}

// IntN returns the next scripted value modulo n.
func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("selector: IntN with non-positive n")
	}
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Drawn reports how many values have been consumed.
func (s *Sequence) Drawn() int { return s.pos }

// #endregion

// #region sample

// sampleUntil draws once and then redraws up to maxAttempts more times
// until accept is satisfied. The last draw is returned either way, so the
// caller always gets a value.
func sampleUntil[T any](draw func() T, accept func(T) bool, maxAttempts int) T {
	v := draw()
	for i := 0; i < maxAttempts && !accept(v); i++ {
		v = draw()
	}
	return v
}

// pick returns a uniformly chosen element of xs. xs must be non-empty.
func pick[T any](r Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

// #endregion
