package study

import (
	"math/rand"
	"time"
)

// Rand is the random source used for shuffling. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

func newRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle permutes s in place with Fisher-Yates, so every permutation is
// equally likely given a uniform rng.
func Shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
