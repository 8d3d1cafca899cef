package scheme

import (
	"math/rand"
	"sync"
)

// RandomSource drives catalog shuffling and count selection.
// *rand.Rand satisfies it but is not safe for concurrent use.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalSource struct{}

func (globalSource) Intn(n int) int                     { return rand.Intn(n) }
func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultSource uses the process-wide math/rand source.
func DefaultSource() RandomSource {
	return globalSource{}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *lockedSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// NewSeededSource returns a reproducible source that can be shared between goroutines.
// Seed 0 returns DefaultSource.
func NewSeededSource(seed int64) RandomSource {
	if seed == 0 {
		return DefaultSource()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}
