package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/hairsim/internal/config"
	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/experiment"
	"github.com/san-kum/hairsim/internal/gui"
	"github.com/san-kum/hairsim/internal/metrics"
	"github.com/san-kum/hairsim/internal/storage"
	"github.com/san-kum/hairsim/internal/viz"
	"github.com/san-kum/hairsim/internal/world"
	"github.com/spf13/cobra"
)

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order. The config file is decoded over the preset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames.Count = frames
	}
	if flags.Changed("frame-dt") {
		cfg.Frames.Dt = frameDt
	}
	if flags.Changed("rate") {
		cfg.Strands.Rate = rate
	}
	if flags.Changed("time-step") {
		cfg.Strands.TimeStep = timeStep
	}
	if flags.Changed("min-steps") && minSteps >= 0 {
		cfg.Strands.StepsMin.Enabled = minSteps > 0
		cfg.Strands.StepsMin.Value = minSteps
	}
	if flags.Changed("max-steps") && maxSteps >= 0 {
		cfg.Strands.StepsMax.Enabled = maxSteps > 0
		cfg.Strands.StepsMax.Value = maxSteps
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("editor") {
		cfg.Frames.Playing = !editor
	}
	if flags.Changed("scene") {
		cfg.Scene = sceneFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadScene(path string) (*world.Scene, error) {
	if path == "" {
		return nil, nil
	}
	return world.LoadScene(path)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scene, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, scene)
	if err != nil {
		return err
	}
	if err := exp.Setup(logger, metrics.Standard()); err != nil {
		return err
	}

	if loadState != "" {
		acc, err := storage.LoadState(loadState)
		if err != nil {
			return err
		}
		exp.Simulator().Restore(acc)
		logger.Info("resumed accumulator", "file", loadState, "accumulated", acc.AccumulatedTime)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running", "frames", cfg.Frames.Count, "rate", cfg.Strands.Rate, "scene", sceneLabel(cfg.Scene))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if !errors.Is(err, dynamo.ErrContextCanceled) || result == nil {
			return err
		}
		logger.Warn("run interrupted, keeping partial result", "err", err)
	}
	elapsed := time.Since(start)

	name := "default"
	if preset != "" {
		name = preset
	}
	runID, err := st.Save(storage.RunInfo{
		Name:     name,
		Preset:   preset,
		Scene:    cfg.Scene,
		Seed:     cfg.Seed,
		Rate:     cfg.Strands.Rate,
		StepSize: cfg.Strands.StepSize(),
	}, result)
	if err != nil {
		return err
	}

	if saveState != "" {
		if err := storage.SaveState(saveState, result.Final); err != nil {
			return err
		}
	}

	if svgFile != "" {
		b := exp.Solver().Bounds()
		v := viz.View{CenterX: b.Center.X(), CenterY: b.Center.Y(), Span: 2 * b.MaxExtent()}
		svg := viz.StrandsToSVG(exp.Solver().Strands(), exp.Boundaries(), v, 600, 600)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote snapshot", "file", svgFile)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  steps: %d  skipped: %d\n", len(result.Frames), result.StepsTaken, result.StepsSkipped)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scene, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, scene)
	if err != nil {
		return err
	}
	// the live view owns the terminal; keep the simulator quiet
	if err := exp.Setup(nil, nil); err != nil {
		return err
	}

	m := viz.NewModel(exp.Simulator(), exp.Solver(), cfg.Frames.Dt)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scene, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, scene)
	if err != nil {
		return err
	}
	if err := exp.Setup(logger, nil); err != nil {
		return err
	}

	dt := 0.0
	if fixedDt {
		dt = cfg.Frames.Dt
	}
	gui.NewApp(exp, dt).Run()
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("%w: --runs must be positive, got %d", dynamo.ErrInvalidConfig, numRuns)
	}

	var scene experiment.SceneFunc
	if cfg.Scene != "" {
		path := cfg.Scene
		scene = func() (*world.Scene, error) { return world.LoadScene(path) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running ensemble", "runs", numRuns, "seed", cfg.Seed, "frames", cfg.Frames.Count)
	start := time.Now()
	results, err := experiment.NewEnsemble(cfg, scene, metrics.Standard, numRuns, cfg.Seed).Run(ctx)
	if err != nil {
		return err
	}

	var steps, skipped int
	for _, r := range results {
		steps += r.StepsTaken
		skipped += r.StepsSkipped
	}
	fmt.Printf("completed %d runs in %v\n", len(results), time.Since(start))
	fmt.Printf("steps: %d  skipped: %d\n", steps, skipped)
	fmt.Println("\nmean metrics:")
	printMetrics(experiment.MeanMetrics(results))
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func sceneLabel(path string) string {
	if path == "" {
		return "default"
	}
	return path
}
