package sim

import "math"

const (
	// smoothingBase and smoothingWindow give StepsLastFrameSmoothed a time
	// constant of roughly 0.2s: after smoothingWindow seconds only
	// smoothingBase of the previous value remains.
	smoothingBase   = 0.01
	smoothingWindow = 0.2

	maxRawSteps = math.MaxInt32
)

// StepLimit is an optional bound on the number of steps per frame.
type StepLimit struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Value   int  `yaml:"value" json:"value"`
}

// Accumulator converts variable frame times into a whole number of fixed
// solver steps, carrying the remainder between frames. All four fields are
// persisted with the owning entity.
type Accumulator struct {
	AccumulatedTime        float64 `yaml:"accumulated_time" json:"accumulated_time"`
	StepsLastFrame         int     `yaml:"steps_last_frame" json:"steps_last_frame"`
	StepsLastFrameSmoothed float64 `yaml:"steps_last_frame_smoothed" json:"steps_last_frame_smoothed"`
	StepsSkipped           int     `yaml:"steps_skipped" json:"steps_skipped"`
}

func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Advance adds dt to the accumulator and returns how many steps of stepSize
// to run this frame. A zero (or otherwise non-positive) step size resets the
// state and runs nothing.
//
// The min limit is applied before the max limit, so an enabled max wins when
// the two disagree. Time is drained for the larger of the raw and clamped
// counts; when the max limit suppressed steps the remainder is dropped
// entirely instead of building a backlog. A non-finite dt counts as zero and
// a non-finite carried state is cleared.
func (a *Accumulator) Advance(dt, stepSize float64, minSteps, maxSteps StepLimit) int {
	if !(stepSize > 0) {
		a.Reset()
		return 0
	}

	if !finite(dt) {
		dt = 0
	}
	if !finite(a.AccumulatedTime) {
		a.AccumulatedTime = 0
	}
	if !finite(a.StepsLastFrameSmoothed) {
		a.StepsLastFrameSmoothed = 0
	}

	a.AccumulatedTime += dt

	raw := 0
	if a.AccumulatedTime > 0 {
		raw = int(math.Min(math.Floor(a.AccumulatedTime/stepSize), maxRawSteps))
	}

	steps := raw
	if minSteps.Enabled {
		steps = max(steps, minSteps.Value)
	}
	if maxSteps.Enabled {
		steps = min(steps, maxSteps.Value)
	}
	steps = max(steps, 0)

	a.AccumulatedTime -= float64(max(raw, steps)) * stepSize
	if !(a.AccumulatedTime >= 0) || steps < raw {
		a.AccumulatedTime = 0
	}

	a.StepsLastFrame = steps
	a.StepsLastFrameSmoothed = lerp(a.StepsLastFrameSmoothed, float64(steps), 1-math.Pow(smoothingBase, dt/smoothingWindow))
	a.StepsSkipped = max(0, raw-steps)

	return steps
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
