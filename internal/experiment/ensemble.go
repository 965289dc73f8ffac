package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/hairsim/internal/config"
	"github.com/san-kum/hairsim/internal/sim"
	"github.com/san-kum/hairsim/internal/world"
)

// SceneFunc builds a fresh scene. Each ensemble member gets its own so no
// solver, gather context or space is shared between goroutines.
type SceneFunc func() (*world.Scene, error)

// Ensemble repeats one configuration over consecutive seeds, which changes
// only the jitter of the frame clock.
type Ensemble struct {
	cfg       *config.Config
	scene     SceneFunc
	numRuns   int
	seedStart int64
	metrics   func() []sim.Metric
}

// NewEnsemble creates an ensemble. A nil scene func uses the default scene
// and a nil metrics func records no metrics.
func NewEnsemble(cfg *config.Config, scene SceneFunc, metrics func() []sim.Metric, numRuns int, seedStart int64) *Ensemble {
	if scene == nil {
		scene = func() (*world.Scene, error) { return world.BuildScene(world.DefaultScene()) }
	}
	return &Ensemble{cfg: cfg, scene: scene, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

// Run plays every member concurrently. The first error wins and no results
// are returned with it.
func (e *Ensemble) Run(ctx context.Context) ([]*sim.Result, error) {
	results := make([]*sim.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, e.seedStart+int64(idx))
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, seed int64) (*sim.Result, error) {
	cfg := *e.cfg
	cfg.Seed = seed

	scene, err := e.scene()
	if err != nil {
		return nil, err
	}
	exp, err := New(&cfg, scene)
	if err != nil {
		return nil, err
	}

	var metrics []sim.Metric
	if e.metrics != nil {
		metrics = e.metrics()
	}
	if err := exp.Setup(nil, metrics); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// MeanMetrics averages each metric over the results that recorded it.
func MeanMetrics(results []*sim.Result) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name, v := range r.Metrics {
			sums[name] += v
			counts[name]++
		}
	}
	for name := range sums {
		sums[name] /= float64(counts[name])
	}
	return sums
}
