package config

import (
	"fmt"
	"slices"

	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/sim"
)

// Presets are complete configurations keyed by name. Fields a preset leaves
// at zero are taken from DefaultConfig by GetPreset.
var Presets = map[string]*Config{
	"realtime": {
		Strands: StrandsConfig{
			Rate:     Rate60Hz,
			StepsMax: sim.StepLimit{Enabled: true, Value: 2},
		},
		Frames: FrameConfig{Count: 600, Dt: 1.0 / 60.0},
	},
	"cinematic": {
		Strands: StrandsConfig{
			Rate:     Rate120Hz,
			StepsMin: sim.StepLimit{Enabled: true, Value: 2},
			StepsMax: sim.StepLimit{Enabled: false, Value: 8},
		},
		Frames: FrameConfig{Count: 240, Dt: 1.0 / 24.0},
	},
	"mobile": {
		Strands: StrandsConfig{
			Rate:     Rate30Hz,
			StepsMax: sim.StepLimit{Enabled: true, Value: 1},
		},
		Frames: FrameConfig{Count: 300, Dt: 1.0 / 30.0, Jitter: 0.2},
	},
	"catchup": {
		Strands: StrandsConfig{
			Rate:     Rate60Hz,
			StepsMax: sim.StepLimit{Enabled: true, Value: 4},
		},
		Frames: FrameConfig{Count: 600, Dt: 1.0 / 60.0, HitchEvery: 60, HitchDt: 0.5},
	},
}

// GetPreset returns a fresh copy of the named preset merged over the
// defaults.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	cfg.Strands.Rate = p.Strands.Rate
	cfg.Strands.StepsMin = p.Strands.StepsMin
	cfg.Strands.StepsMax = p.Strands.StepsMax
	cfg.Frames.Count = p.Frames.Count
	cfg.Frames.Dt = p.Frames.Dt
	cfg.Frames.Jitter = p.Frames.Jitter
	cfg.Frames.HitchEvery = p.Frames.HitchEvery
	cfg.Frames.HitchDt = p.Frames.HitchDt
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
