package game

import (
	"math/rand"
	"time"
)

// Rand is the random source lifelines draw from.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a time-seeded source.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
