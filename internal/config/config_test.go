package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Strands.Rate != Rate60Hz {
		t.Errorf("expected rate 60hz, got %s", cfg.Strands.Rate)
	}
	if cfg.Strands.StepsMin.Enabled || cfg.Strands.StepsMin.Value != 1 {
		t.Errorf("unexpected steps_min %+v", cfg.Strands.StepsMin)
	}
	if !cfg.Strands.StepsMax.Enabled || cfg.Strands.StepsMax.Value != 2 {
		t.Errorf("unexpected steps_max %+v", cfg.Strands.StepsMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestStepSize(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{Rate30Hz, 1.0 / 30},
		{Rate60Hz, 1.0 / 60},
		{Rate120Hz, 1.0 / 120},
		{RateCustom, DefaultTimeStep},
		{"240hz", 0},
	}

	for _, tt := range tests {
		s := DefaultConfig().Strands
		s.Rate = tt.rate
		if got := s.StepSize(); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("rate %s: expected %f, got %f", tt.rate, tt.want, got)
		}
	}
}

func TestActive(t *testing.T) {
	tests := []struct {
		simulation, inEditor, playing, want bool
	}{
		{true, true, false, true},
		{true, false, false, false},
		{true, false, true, true},
		{false, true, true, false},
	}

	for _, tt := range tests {
		s := StrandsConfig{Simulation: tt.simulation, InEditor: tt.inEditor}
		if got := s.Active(tt.playing); got != tt.want {
			t.Errorf("%+v playing=%v: expected %v, got %v", s, tt.playing, tt.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown rate", func(c *Config) { c.Strands.Rate = "fast" }},
		{"custom without step", func(c *Config) { c.Strands.Rate = RateCustom; c.Strands.TimeStep = 0 }},
		{"negative max", func(c *Config) { c.Strands.StepsMax.Value = -1 }},
		{"negative frames", func(c *Config) { c.Frames.Count = -1 }},
		{"full jitter", func(c *Config) { c.Frames.Jitter = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestColliderTable(t *testing.T) {
	cfg := DefaultConfig()
	table, err := cfg.ColliderTable()
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 3 || table[boundary.ColliderBox] != boundary.ShapeCube {
		t.Errorf("unexpected default table %v", table)
	}

	cfg.Boundaries.ColliderMap["mesh"] = "capsule"
	table, _ = cfg.ColliderTable()
	if table[boundary.ColliderMesh] != boundary.ShapeCapsule {
		t.Error("mesh mapping not applied")
	}

	cfg.Boundaries.ColliderMap["mesh"] = "cone"
	if _, err := cfg.ColliderTable(); !errors.Is(err, dynamo.ErrUnknownShape) {
		t.Errorf("expected ErrUnknownShape, got %v", err)
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strands.InEditor = false
	cfg.Frames.Playing = false

	sc := cfg.SimConfig()
	if sc.Active {
		t.Error("expected inactive outside play without editor simulation")
	}
	if sc.StepSize != 1.0/60 {
		t.Errorf("expected 60hz step, got %f", sc.StepSize)
	}
	if !sc.MaxSteps.Enabled || sc.MaxSteps.Value != 2 {
		t.Errorf("unexpected max steps %+v", sc.MaxSteps)
	}
}

func TestFrameTimes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frames = FrameConfig{Count: 10, Dt: 0.01, HitchEvery: 5, HitchDt: 0.5}

	dts := cfg.FrameTimes()
	if len(dts) != 10 {
		t.Fatalf("expected 10 frames, got %d", len(dts))
	}
	if dts[4] != 0.5 || dts[9] != 0.5 || dts[0] != 0.01 {
		t.Errorf("unexpected hitch pattern %v", dts)
	}

	cfg.Frames = FrameConfig{Count: 100, Dt: 0.01, Jitter: 0.5}
	a, b := cfg.FrameTimes(), cfg.FrameTimes()
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("jitter is not reproducible for a fixed seed")
		}
		if a[i] < 0.005 || a[i] > 0.015 {
			t.Fatalf("frame %d out of jitter range: %f", i, a[i])
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hair.yaml")
	cfg := DefaultConfig()
	cfg.Strands.Rate = Rate120Hz
	cfg.Boundaries.SortByProximity = false

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Strands.Rate != Rate120Hz || loaded.Boundaries.SortByProximity {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("strands:\n  rate: 30hz\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strands.Rate != Rate30Hz {
		t.Errorf("expected 30hz, got %s", cfg.Strands.Rate)
	}
	if !cfg.Strands.StepsMax.Enabled || cfg.Frames.Count != DefaultFrames {
		t.Error("defaults lost on partial load")
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("catchup")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strands.StepsMax.Value != 4 || cfg.Frames.HitchEvery != 60 {
		t.Errorf("unexpected preset %+v", cfg)
	}
	if !cfg.Strands.Simulation {
		t.Error("preset lost default simulation flag")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}

	cfg.Strands.Rate = Rate30Hz
	again, _ := GetPreset("catchup")
	if again.Strands.Rate != Rate60Hz {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, err := GetPreset("nonexistent"); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, n := range names {
		cfg, _ := GetPreset(n)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", n, err)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hair.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadColliderMapReplacesDefaults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want boundary.ColliderTable
	}{
		{
			name: "absent keeps defaults",
			body: "strands:\n  rate: 30hz\n",
			want: boundary.DefaultColliderTable(),
		},
		{
			name: "empty disables inference",
			body: "boundaries:\n  collider_map: {}\n",
			want: boundary.ColliderTable{},
		},
		{
			name: "mesh only",
			body: "boundaries:\n  collider_map:\n    mesh: cube\n",
			want: boundary.ColliderTable{boundary.ColliderMesh: boundary.ShapeCube},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			if err != nil {
				t.Fatal(err)
			}
			table, err := cfg.ColliderTable()
			if err != nil {
				t.Fatal(err)
			}
			if len(table) != len(tt.want) {
				t.Fatalf("expected %d mappings, got %d: %v", len(tt.want), len(table), table)
			}
			for k, v := range tt.want {
				if table[k] != v {
					t.Errorf("%s: expected %s, got %s", k, v, table[k])
				}
			}
		})
	}
}

func TestLoadOverPreset(t *testing.T) {
	base, err := GetPreset("catchup")
	if err != nil {
		t.Fatal(err)
	}
	base.Boundaries.ColliderMap = map[string]string{"sphere": "sphere"}

	cfg, err := LoadOver(writeConfig(t, "strands:\n  rate: 30hz\n"), base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strands.Rate != Rate30Hz {
		t.Errorf("expected 30hz from file, got %s", cfg.Strands.Rate)
	}
	if cfg.Strands.StepsMax.Value != 4 || cfg.Frames.HitchEvery != 60 {
		t.Errorf("preset values lost: %+v", cfg)
	}
	if len(cfg.Boundaries.ColliderMap) != 1 {
		t.Errorf("base collider map should survive, got %v", cfg.Boundaries.ColliderMap)
	}
}
