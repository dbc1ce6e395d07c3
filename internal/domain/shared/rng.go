package shared

import (
	"math/rand"
	"time"
)

// Rand is an abstraction over randomness so probabilistic outcomes
// (rarity rolls, casualties, betrayals, busts) can be scripted in tests
type Rand interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// SystemRand implements Rand with a seeded math/rand source
type SystemRand struct {
	r *rand.Rand
}

// NewSystemRand creates a SystemRand seeded from the current time
func NewSystemRand() *SystemRand {
	return &SystemRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRand creates a SystemRand with a fixed seed for reproducible runs
func NewSeededRand(seed int64) *SystemRand {
	return &SystemRand{r: rand.New(rand.NewSource(seed))}
}

func (s *SystemRand) Float64() float64 { return s.r.Float64() }
func (s *SystemRand) Intn(n int) int   { return s.r.Intn(n) }

// SequenceRand implements Rand by replaying fixed sequences, for tests.
// When a sequence is exhausted it keeps returning the last value.
type SequenceRand struct {
	Floats []float64
	Ints   []int
	fi     int
	ii     int
}

func (s *SequenceRand) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi]
	if s.fi < len(s.Floats)-1 {
		s.fi++
	}
	return v
}

func (s *SequenceRand) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii]
	if s.ii < len(s.Ints)-1 {
		s.ii++
	}
	if v >= n {
		v = n - 1
	}
	return v
}
