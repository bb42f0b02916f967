package media

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptyChoice is returned by Pick for an empty list.
var ErrEmptyChoice = errors.New("nothing to choose from")

// Pick returns a uniformly random element of items.
func Pick[T any](r *rand.Rand, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyChoice
	}
	return items[r.IntN(len(items))], nil
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
