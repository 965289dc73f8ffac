// Package experiment assembles a runnable strand simulation from a config
// and a scene.
package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/config"
	"github.com/san-kum/hairsim/internal/gather"
	"github.com/san-kum/hairsim/internal/sim"
	"github.com/san-kum/hairsim/internal/strands"
	"github.com/san-kum/hairsim/internal/world"
)

type Experiment struct {
	cfg       *config.Config
	scene     *world.Scene
	solver    *strands.Solver
	simulator *sim.Simulator
	table     boundary.ColliderTable
}

// New creates an experiment. A nil scene is replaced by world.DefaultScene.
func New(cfg *config.Config, scene *world.Scene) (*Experiment, error) {
	if scene == nil {
		var err error
		scene, err = world.BuildScene(world.DefaultScene())
		if err != nil {
			return nil, err
		}
	}
	return &Experiment{cfg: cfg, scene: scene}, nil
}

func (e *Experiment) Setup(logger *log.Logger, metrics []sim.Metric, observers ...sim.Observer) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	table, err := e.cfg.ColliderTable()
	if err != nil {
		return err
	}
	mode, err := strands.ParseScaleMode(e.cfg.Strands.Scale)
	if err != nil {
		return fmt.Errorf("strands: %w", err)
	}

	e.table = table
	e.solver = strands.NewSolver()
	e.solver.SetScale(mode, mgl64.Vec3{1, 1, 1})
	e.solver.SetParam("diameter", e.cfg.Strands.Diameter)
	for _, d := range e.scene.Strands {
		e.solver.AddStrands(vec(d.Root), vec(d.Direction), vec(d.Spread), d.Count, d.Segments, d.Length)
	}

	opts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithBoundaries(e.scene.Explicit...),
	}
	for _, m := range metrics {
		opts = append(opts, sim.WithMetric(m))
	}
	for _, o := range observers {
		opts = append(opts, sim.WithObserver(o))
	}

	e.simulator = sim.New(e.solver, gather.NewContext(e.scene.Space, table), e.cfg.SimConfig(), opts...)

	if logger != nil {
		logger.Debug("experiment ready",
			"objects", e.scene.Space.Len(),
			"explicit", len(e.scene.Explicit),
			"strands", len(e.solver.Strands()),
			"step", e.cfg.Strands.StepSize())
	}
	return nil
}

// Run plays the configured frame clock.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.FrameTimes())
}

// Boundaries gathers what the solver would collide with right now. The
// returned slice is freshly allocated.
func (e *Experiment) Boundaries() []boundary.Entry {
	if e.solver == nil {
		return nil
	}
	sc := e.cfg.SimConfig()
	ctx := gather.NewContext(e.scene.Space, e.table)
	entries := ctx.Gather(e.scene.Explicit, gather.Options{
		SortByProximity:  sc.SortByProximity,
		SpatialQuery:     sc.SpatialQuery,
		IncludeColliders: sc.IncludeColliders,
		Volume:           e.solver.Bounds(),
	})
	return append([]boundary.Entry(nil), entries...)
}

func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Solver() *strands.Solver { return e.solver }

func (e *Experiment) Scene() *world.Scene { return e.scene }

func vec(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}
