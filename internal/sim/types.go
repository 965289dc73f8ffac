package sim

import (
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/gather"
)

// Solver is the downstream strand solver. Step is called once per fixed
// step with the freshly gathered boundaries, which are only valid for the
// duration of the call.
type Solver interface {
	Step(dt float64, boundaries []boundary.Entry)
}

// BoundsProvider is implemented by solvers that know their simulation
// volume. The volume is re-read before every gather.
type BoundsProvider interface {
	Bounds() gather.QueryVolume
}

type Metric interface {
	Name() string
	Observe(f FrameStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f FrameStats)
}

// FrameStats is the telemetry recorded for one rendered frame.
type FrameStats struct {
	Frame       int     `json:"frame"`
	Time        float64 `json:"time"`
	Dt          float64 `json:"dt"`
	Steps       int     `json:"steps"`
	Skipped     int     `json:"skipped"`
	Smoothed    float64 `json:"smoothed"`
	Accumulated float64 `json:"accumulated"`
	Boundaries  int     `json:"boundaries"`
}

type Config struct {
	StepSize float64
	MinSteps StepLimit
	MaxSteps StepLimit
	Active   bool

	SortByProximity  bool
	SpatialQuery     bool
	IncludeColliders bool

	// Volume is used for the spatial query when the solver does not
	// implement BoundsProvider.
	Volume gather.QueryVolume
}

type Result struct {
	Frames       []FrameStats
	Metrics      map[string]float64
	StepsTaken   int
	StepsSkipped int
	Final        Accumulator
}
