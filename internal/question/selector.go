package question

import "math/rand/v2"

// RandSource draws an integer in [0, n). *rand.Rand from math/rand/v2 satisfies it
// but is not safe for concurrent use; the default source is.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selector picks the next quiz question.
type Selector struct {
	rnd RandSource
}

// NewSelector builds a selector; a nil source falls back to the global generator.
func NewSelector(rnd RandSource) *Selector {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Selector{rnd: rnd}
}

// Next returns a uniformly chosen question from pool that matches spec and is not
// in previous. The bool result is false when nothing is eligible: the quiz is over.
func (s *Selector) Next(spec CategorySpec, pool []Question, previous []int) (Question, bool, error) {
	if err := spec.Validate(); err != nil {
		return Question{}, false, err
	}
	eligible := Eligible(spec, pool, previous)
	if len(eligible) == 0 {
		return Question{}, false, nil
	}
	return eligible[s.rnd.IntN(len(eligible))], true, nil
}

// Eligible intersects the category constraint with the exclusion set.
func Eligible(spec CategorySpec, pool []Question, previous []int) []Question {
	if spec.Scope == ScopeCategory {
		pool = FilterByCategory(pool, spec.ID)
	}
	return FilterExcluding(pool, previous)
}
