package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/gather"
)

// Simulator drives the strand solver from rendered frames. Each frame feeds
// the accumulator, and every fixed step it yields gathers a fresh boundary
// list and hands it to the solver.
type Simulator struct {
	solver   Solver
	gatherer *gather.Context
	cfg      Config
	logger   *log.Logger

	explicit  []boundary.Authored
	metrics   []Metric
	observers []Observer

	acc   Accumulator
	frame int
	time  float64
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBoundaries sets the explicitly assigned boundaries, gathered ahead of
// anything the spatial query finds.
func WithBoundaries(b ...boundary.Authored) Option {
	return func(s *Simulator) { s.explicit = append(s.explicit, b...) }
}

func WithMetric(m Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

func New(solver Solver, gatherer *gather.Context, cfg Config, opts ...Option) *Simulator {
	if gatherer == nil {
		gatherer = gather.NewContext(nil, nil)
	}
	s := &Simulator{
		solver:   solver,
		gatherer: gatherer,
		cfg:      cfg,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Accumulator returns a copy of the current step accumulator.
func (s *Simulator) Accumulator() Accumulator { return s.acc }

// Restore replaces the accumulator, e.g. with one loaded from disk.
func (s *Simulator) Restore(a Accumulator) { s.acc = a }

// Frame advances the simulation by one rendered frame of length dt.
func (s *Simulator) Frame(dt float64) FrameStats {
	s.frame++
	s.time += dt

	stats := FrameStats{Frame: s.frame, Time: s.time, Dt: dt}

	if !s.cfg.Active {
		s.acc.Reset()
		s.publish(stats)
		return stats
	}

	steps := s.acc.Advance(dt, s.cfg.StepSize, s.cfg.MinSteps, s.cfg.MaxSteps)
	for i := 0; i < steps; i++ {
		entries := s.gatherer.Gather(s.explicit, s.gatherOptions())
		stats.Boundaries = len(entries)
		if s.solver != nil {
			s.solver.Step(s.cfg.StepSize, entries)
		}
	}

	stats.Steps = steps
	stats.Skipped = s.acc.StepsSkipped
	stats.Smoothed = s.acc.StepsLastFrameSmoothed
	stats.Accumulated = s.acc.AccumulatedTime

	s.logger.Debug("frame", "n", s.frame, "dt", dt, "steps", steps, "boundaries", stats.Boundaries)
	if stats.Skipped > 0 {
		s.logger.Warn("steps skipped", "frame", s.frame, "skipped", stats.Skipped)
	}

	s.publish(stats)
	return stats
}

func (s *Simulator) gatherOptions() gather.Options {
	vol := s.cfg.Volume
	if bp, ok := s.solver.(BoundsProvider); ok {
		vol = bp.Bounds()
	}
	return gather.Options{
		SortByProximity:  s.cfg.SortByProximity,
		SpatialQuery:     s.cfg.SpatialQuery,
		IncludeColliders: s.cfg.IncludeColliders,
		Volume:           vol,
	}
}

func (s *Simulator) publish(f FrameStats) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
}

// Run plays back a sequence of frame times. It stops between frames when ctx
// is cancelled and returns what it recorded so far.
func (s *Simulator) Run(ctx context.Context, dts []float64) (*Result, error) {
	if err := s.validateConfig(); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]FrameStats, 0, len(dts)),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for _, dt := range dts {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, &dynamo.SimulationError{
				Frame:   s.frame,
				Time:    s.time,
				Wrapped: fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		f := s.Frame(dt)
		result.Frames = append(result.Frames, f)
		result.StepsTaken += f.Steps
		result.StepsSkipped += f.Skipped
	}

	s.finish(result)
	s.logger.Info("run complete", "frames", len(result.Frames), "steps", result.StepsTaken, "skipped", result.StepsSkipped)
	return result, nil
}

func (s *Simulator) finish(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	r.Final = s.acc
}

func (s *Simulator) validateConfig() error {
	if s.cfg.StepSize < 0 {
		return fmt.Errorf("%w: step size must not be negative, got %f", dynamo.ErrInvalidConfig, s.cfg.StepSize)
	}
	if s.cfg.MinSteps.Enabled && s.cfg.MinSteps.Value < 0 {
		return fmt.Errorf("%w: min steps must not be negative, got %d", dynamo.ErrInvalidConfig, s.cfg.MinSteps.Value)
	}
	if s.cfg.MaxSteps.Enabled && s.cfg.MaxSteps.Value < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", dynamo.ErrInvalidConfig, s.cfg.MaxSteps.Value)
	}
	return nil
}
