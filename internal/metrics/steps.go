package metrics

import "github.com/san-kum/hairsim/internal/sim"

// StepRate is the mean number of solver steps per frame.
type StepRate struct {
	name    string
	steps   int
	samples int
}

func NewStepRate() *StepRate {
	return &StepRate{name: "step_rate"}
}

func (r *StepRate) Name() string { return r.name }

func (r *StepRate) Observe(f sim.FrameStats) {
	r.steps += f.Steps
	r.samples++
}

func (r *StepRate) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.steps) / float64(r.samples)
}

func (r *StepRate) Reset() {
	r.steps = 0
	r.samples = 0
}

// SkipRatio is the share of owed steps that were dropped by the max limit.
type SkipRatio struct {
	name    string
	steps   int
	skipped int
}

func NewSkipRatio() *SkipRatio {
	return &SkipRatio{name: "skip_ratio"}
}

func (r *SkipRatio) Name() string { return r.name }

func (r *SkipRatio) Observe(f sim.FrameStats) {
	r.steps += f.Steps
	r.skipped += f.Skipped
}

func (r *SkipRatio) Value() float64 {
	total := r.steps + r.skipped
	if total == 0 {
		return 0
	}
	return float64(r.skipped) / float64(total)
}

func (r *SkipRatio) Reset() {
	r.steps = 0
	r.skipped = 0
}
