package random

import "sync"

// Sequence replays scripted values. Floats and Ints are consumed in order and
// wrap around when exhausted. An empty Floats list yields 0 and an empty Ints
// list yields 0.
type Sequence struct {
	Floats []float64
	Ints   []int

	mu   sync.Mutex
	fpos int
	ipos int
}

// NewSequence returns a Sequence replaying floats.
func NewSequence(floats ...float64) *Sequence {
	return &Sequence{Floats: floats}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fpos%len(s.Floats)]
	s.fpos++
	return v
}

// Intn returns the next scripted integer clamped to [0, n).
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ipos%len(s.Ints)]
	s.ipos++
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Draws reports how many floats and ints have been consumed.
func (s *Sequence) Draws() (floats, ints int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fpos, s.ipos
}
