package randomutil

import (
	"math/rand"
)

// RandomGenerator is the source of the [CACHEBUSTING] macro. Tests substitute a fixed value.
type RandomGenerator interface {
	GenerateInt63() int64
}

// RandomNumberGenerator draws from the global math/rand source, which is safe for concurrent use.
type RandomNumberGenerator struct{}

func (RandomNumberGenerator) GenerateInt63() int64 {
	return rand.Int63()
}
