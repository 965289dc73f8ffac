package metrics

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/hairsim/internal/sim"
)

// StepJitter is the magnitude of the strongest periodic component in the
// per-frame step count, normalized by frame count. A steady step count reads
// 0; a clean 1,2,1,2 alternation reads 0.5.
type StepJitter struct {
	name  string
	steps []float64
}

func NewStepJitter() *StepJitter {
	return &StepJitter{name: "step_jitter"}
}

func (j *StepJitter) Name() string { return j.name }

func (j *StepJitter) Observe(f sim.FrameStats) {
	j.steps = append(j.steps, float64(f.Steps))
}

func (j *StepJitter) Value() float64 {
	n := len(j.steps)
	if n < 2 {
		return 0
	}

	spectrum := fft.FFTReal(j.steps)
	var peak float64
	for k := 1; k <= n/2; k++ {
		peak = max(peak, cmplx.Abs(spectrum[k]))
	}
	return peak / float64(n)
}

func (j *StepJitter) Reset() {
	j.steps = j.steps[:0]
}
