package config

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	Rate30Hz   = "30hz"
	Rate60Hz   = "60hz"
	Rate120Hz  = "120hz"
	RateCustom = "custom"

	DefaultTimeStep = 1.0 / 100.0
	DefaultDiameter = 1.0
	DefaultFrames   = 600
	DefaultFrameDt  = 1.0 / 60.0
)

type Config struct {
	Scene      string         `yaml:"scene"`
	LogLevel   string         `yaml:"log_level"`
	Seed       int64          `yaml:"seed"`
	Strands    StrandsConfig  `yaml:"strands"`
	Boundaries BoundaryConfig `yaml:"boundaries"`
	Frames     FrameConfig    `yaml:"frames"`
}

type StrandsConfig struct {
	Simulation bool          `yaml:"simulation"`
	Rate       string        `yaml:"rate"`
	InEditor   bool          `yaml:"in_editor"`
	TimeStep   float64       `yaml:"time_step"`
	StepsMin   sim.StepLimit `yaml:"steps_min"`
	StepsMax   sim.StepLimit `yaml:"steps_max"`
	Scale      string        `yaml:"scale"`
	Diameter   float64       `yaml:"diameter"` // millimeters
}

type BoundaryConfig struct {
	SortByProximity  bool              `yaml:"sort_by_proximity"`
	SpatialQuery     bool              `yaml:"spatial_query"`
	IncludeColliders bool              `yaml:"include_colliders"`
	ColliderMap      map[string]string `yaml:"collider_map"`
}

// FrameConfig describes the synthetic frame clock used by offline runs.
// Every HitchEvery-th frame lasts HitchDt instead of Dt.
type FrameConfig struct {
	Count      int     `yaml:"count"`
	Dt         float64 `yaml:"dt"`
	Jitter     float64 `yaml:"jitter"`
	HitchEvery int     `yaml:"hitch_every"`
	HitchDt    float64 `yaml:"hitch_dt"`
	Playing    bool    `yaml:"playing"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Strands: StrandsConfig{
			Simulation: true,
			Rate:       Rate60Hz,
			InEditor:   true,
			TimeStep:   DefaultTimeStep,
			StepsMin:   sim.StepLimit{Enabled: false, Value: 1},
			StepsMax:   sim.StepLimit{Enabled: true, Value: 2},
			Scale:      "fixed",
			Diameter:   DefaultDiameter,
		},
		Boundaries: BoundaryConfig{
			SortByProximity:  true,
			SpatialQuery:     true,
			IncludeColliders: true,
			ColliderMap: map[string]string{
				"box":     "cube",
				"sphere":  "sphere",
				"capsule": "capsule",
			},
		},
		Frames: FrameConfig{
			Count:   DefaultFrames,
			Dt:      DefaultFrameDt,
			Playing: true,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver decodes the file on top of base and returns base. Keys missing
// from the file keep their base values; a collider_map in the file replaces
// the base map as a whole, so it can also remove mappings.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var present struct {
		Boundaries struct {
			ColliderMap *map[string]string `yaml:"collider_map"`
		} `yaml:"boundaries"`
	}
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, err
	}

	inherited := base.Boundaries.ColliderMap
	base.Boundaries.ColliderMap = nil
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, err
	}
	if present.Boundaries.ColliderMap == nil {
		base.Boundaries.ColliderMap = inherited
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StepSize returns the solver step for the configured rate, or 0 for an
// unknown rate.
func (s StrandsConfig) StepSize() float64 {
	switch strings.ToLower(s.Rate) {
	case Rate30Hz:
		return 1.0 / 30.0
	case Rate60Hz:
		return 1.0 / 60.0
	case Rate120Hz:
		return 1.0 / 120.0
	case RateCustom:
		return s.TimeStep
	default:
		return 0
	}
}

// Active reports whether strands simulate at all. Outside of play they only
// run when editor simulation is on.
func (s StrandsConfig) Active(playing bool) bool {
	return s.Simulation && (s.InEditor || playing)
}

func (c *Config) Validate() error {
	s := c.Strands
	switch strings.ToLower(s.Rate) {
	case Rate30Hz, Rate60Hz, Rate120Hz:
	case RateCustom:
		if s.TimeStep <= 0 {
			return fmt.Errorf("%w: custom time step must be positive, got %f", dynamo.ErrInvalidConfig, s.TimeStep)
		}
	default:
		return fmt.Errorf("%w: unknown simulation rate %q", dynamo.ErrInvalidConfig, s.Rate)
	}
	if s.StepsMin.Enabled && s.StepsMin.Value < 0 {
		return fmt.Errorf("%w: steps_min must not be negative", dynamo.ErrInvalidConfig)
	}
	if s.StepsMax.Enabled && s.StepsMax.Value < 0 {
		return fmt.Errorf("%w: steps_max must not be negative", dynamo.ErrInvalidConfig)
	}
	if s.Diameter < 0 {
		return fmt.Errorf("%w: strand diameter must not be negative", dynamo.ErrInvalidConfig)
	}
	if c.Frames.Count < 0 {
		return fmt.Errorf("%w: frame count must not be negative", dynamo.ErrInvalidConfig)
	}
	if c.Frames.Dt < 0 || c.Frames.HitchDt < 0 {
		return fmt.Errorf("%w: frame times must not be negative", dynamo.ErrInvalidConfig)
	}
	if c.Frames.Jitter < 0 || c.Frames.Jitter >= 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1), got %f", dynamo.ErrInvalidConfig, c.Frames.Jitter)
	}
	if _, err := c.ColliderTable(); err != nil {
		return err
	}
	return nil
}

// ColliderTable parses the collider map. An empty map disables collider
// inference for every kind.
func (c *Config) ColliderTable() (boundary.ColliderTable, error) {
	table := make(boundary.ColliderTable, len(c.Boundaries.ColliderMap))
	for from, to := range c.Boundaries.ColliderMap {
		ck, err := boundary.ParseColliderKind(from)
		if err != nil {
			return nil, fmt.Errorf("%w: collider_map: %v", dynamo.ErrUnknownShape, err)
		}
		sk, err := boundary.ParseShapeKind(to)
		if err != nil {
			return nil, fmt.Errorf("%w: collider_map: %v", dynamo.ErrUnknownShape, err)
		}
		table[ck] = sk
	}
	return table, nil
}

// SimConfig translates the file settings into the frame driver's config.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		StepSize:         c.Strands.StepSize(),
		MinSteps:         c.Strands.StepsMin,
		MaxSteps:         c.Strands.StepsMax,
		Active:           c.Strands.Active(c.Frames.Playing),
		SortByProximity:  c.Boundaries.SortByProximity,
		SpatialQuery:     c.Boundaries.SpatialQuery,
		IncludeColliders: c.Boundaries.IncludeColliders,
	}
}

// FrameTimes expands the frame clock into per-frame durations. Jitter is
// drawn from a source seeded with Seed, so runs are reproducible.
func (c *Config) FrameTimes() []float64 {
	f := c.Frames
	rng := rand.New(rand.NewSource(c.Seed))
	dts := make([]float64, f.Count)
	for i := range dts {
		dt := f.Dt
		if f.HitchEvery > 0 && (i+1)%f.HitchEvery == 0 {
			dt = f.HitchDt
		}
		if f.Jitter > 0 {
			dt *= 1 + f.Jitter*(2*rng.Float64()-1)
		}
		dts[i] = dt
	}
	return dts
}
