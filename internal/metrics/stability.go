package metrics

import "github.com/san-kum/hairsim/internal/sim"

// Stability is the fraction of observed frames that ran every step they
// owed, i.e. had nothing clamped away by the max step limit.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{
		name: "stability",
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.FrameStats) {
	s.samples++
	if f.Skipped > 0 {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
