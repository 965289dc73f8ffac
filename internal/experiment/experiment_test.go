package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/hairsim/internal/config"
	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/metrics"
	"github.com/san-kum/hairsim/internal/sim"
	"github.com/san-kum/hairsim/internal/world"
)

func TestRunDefaultScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Frames.Count = 30

	exp, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := exp.Setup(nil, metrics.Standard()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 30 {
		t.Errorf("expected 30 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken == 0 {
		t.Error("expected some steps")
	}
	if _, ok := result.Metrics["step_rate"]; !ok {
		t.Error("step_rate metric missing")
	}

	last := result.Frames[len(result.Frames)-1]
	if last.Boundaries != 2 {
		t.Errorf("expected head and shoulders gathered, got %d", last.Boundaries)
	}
}

func TestRunWithoutSetup(t *testing.T) {
	exp, err := New(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Strands.Rate = "never"

	exp, _ := New(cfg, nil)
	if err := exp.Setup(nil, nil); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestInactiveRunTakesNoSteps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Frames.Count = 10
	cfg.Strands.Simulation = false

	exp, _ := New(cfg, nil)
	if err := exp.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

func TestBoundaries(t *testing.T) {
	exp, err := New(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if exp.Boundaries() != nil {
		t.Error("boundaries before setup should be nil")
	}
	if err := exp.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}

	first := exp.Boundaries()
	if len(first) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(first))
	}
	second := exp.Boundaries()
	if &first[0] == &second[0] {
		t.Error("each call should return its own slice")
	}
}

func TestEnsemble(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Frames.Count = 20
	cfg.Frames.Jitter = 0.3

	ens := NewEnsemble(cfg, nil, metrics.Standard, 4, 100)
	results, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if len(r.Frames) != 20 {
			t.Errorf("run %d: expected 20 frames, got %d", i, len(r.Frames))
		}
	}
	if cfg.Seed == 100 {
		t.Error("ensemble should not modify the base config")
	}

	mean := MeanMetrics(results)
	if _, ok := mean["step_rate"]; !ok {
		t.Error("step_rate missing from mean")
	}
}

func TestEnsembleSceneError(t *testing.T) {
	boom := errors.New("boom")
	ens := NewEnsemble(config.DefaultConfig(), func() (*world.Scene, error) { return nil, boom }, nil, 2, 1)
	if _, err := ens.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected scene error, got %v", err)
	}
}

func TestMeanMetrics(t *testing.T) {
	results := []*sim.Result{
		{Metrics: map[string]float64{"a": 1, "b": 4}},
		nil,
		{Metrics: map[string]float64{"a": 3}},
	}
	mean := MeanMetrics(results)
	if mean["a"] != 2 || mean["b"] != 4 {
		t.Errorf("unexpected mean %v", mean)
	}
}
