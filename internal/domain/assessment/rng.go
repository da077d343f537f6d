package assessment

import "math/rand"

// Rand is the randomness source injected into scoring and factor selection.
// *math/rand.Rand satisfies it; callers own seeding so results stay
// reproducible under test.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

// NewSeededRand returns a deterministic source for the given seed. Each
// instance carries its own state, so one instance per assessment keeps
// concurrent calls from interfering.
func NewSeededRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
