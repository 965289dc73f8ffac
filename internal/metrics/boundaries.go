package metrics

import "github.com/san-kum/hairsim/internal/sim"

// BoundaryLoad averages the gathered boundary count over frames that
// stepped. Peak keeps the largest single gather.
type BoundaryLoad struct {
	name    string
	sum     int
	samples int
	peak    int
}

func NewBoundaryLoad() *BoundaryLoad {
	return &BoundaryLoad{name: "boundary_load"}
}

func (b *BoundaryLoad) Name() string { return b.name }

func (b *BoundaryLoad) Observe(f sim.FrameStats) {
	if f.Steps == 0 {
		return
	}
	b.sum += f.Boundaries
	b.samples++
	b.peak = max(b.peak, f.Boundaries)
}

func (b *BoundaryLoad) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return float64(b.sum) / float64(b.samples)
}

func (b *BoundaryLoad) Peak() int { return b.peak }

func (b *BoundaryLoad) Reset() {
	b.sum = 0
	b.samples = 0
	b.peak = 0
}

// Standard returns the metrics every run records.
func Standard() []sim.Metric {
	return []sim.Metric{NewStepRate(), NewSkipRatio(), NewStability(), NewBoundaryLoad(), NewStepJitter()}
}
