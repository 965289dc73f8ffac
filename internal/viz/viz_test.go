package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/gather"
	"github.com/san-kum/hairsim/internal/sim"
	"github.com/san-kum/hairsim/internal/strands"
)

func newTestModel() (Model, *strands.Solver) {
	solver := strands.NewSolver()
	solver.AddStrands(mgl64.Vec3{}, mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0.1, 0, 0}, 2, 4, 0.2)
	s := sim.New(solver, gather.NewContext(nil, nil), sim.Config{
		StepSize: 1.0 / 60,
		MaxSteps: sim.StepLimit{Enabled: true, Value: 2},
		Active:   true,
	})
	return NewModel(s, solver, 1.0/60), solver
}

func TestModelTickAdvances(t *testing.T) {
	m, _ := newTestModel()

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	got := next.(Model)
	if got.last.Frame != 1 {
		t.Errorf("frame = %d, want 1", got.last.Frame)
	}
	if len(got.steps) != 1 {
		t.Errorf("history length = %d, want 1", len(got.steps))
	}
}

func TestModelPause(t *testing.T) {
	m, _ := newTestModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	paused := next.(Model)
	if !paused.paused {
		t.Fatal("space should pause")
	}

	next, _ = paused.Update(TickMsg{})
	if next.(Model).last.Frame != 0 {
		t.Error("paused model should not advance")
	}
}

func TestModelHitch(t *testing.T) {
	m, _ := newTestModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	next, _ = next.(Model).Update(TickMsg{})
	got := next.(Model)
	if got.last.Steps != 2 {
		t.Errorf("steps = %d, want 2", got.last.Steps)
	}
	if got.last.Skipped == 0 {
		t.Error("hitch should skip steps")
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel()
	for i := 0; i < 3; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	out := m.View()
	for _, want := range []string{"steps", "smoothed", "boundaries"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPushHistoryCapacity(t *testing.T) {
	var h []float64
	for i := 0; i < historyCapacity+5; i++ {
		h = pushHistory(h, float64(i))
	}
	if len(h) != historyCapacity {
		t.Fatalf("len = %d, want %d", len(h), historyCapacity)
	}
	if h[0] != 5 {
		t.Errorf("oldest = %v, want 5", h[0])
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Line(0, 0, 3, 3)
	out := c.String()
	if strings.Count(out, string(rune(brailleBlank))) != 0 {
		t.Errorf("diagonal should touch both cells: %q", out)
	}

	c.Clear()
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.String() != strings.Repeat(string(rune(brailleBlank)), 2)+"\n" {
		t.Error("out of range dots should be ignored")
	}
}

func TestPlotFramesShort(t *testing.T) {
	out := PlotFrames([]sim.FrameStats{{Steps: 1}}, 40, 5)
	if !strings.Contains(out, "not enough") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPlotFrames(t *testing.T) {
	frames := []sim.FrameStats{{Steps: 1, Smoothed: 1}, {Steps: 2, Smoothed: 1.2}, {Steps: 1, Smoothed: 1.1}}
	out := PlotFrames(frames, 30, 5)
	if !strings.Contains(out, "accumulated time") {
		t.Error("missing accumulator chart")
	}
}

func TestStrandsToSVG(t *testing.T) {
	solver := strands.NewSolver()
	solver.AddStrands(mgl64.Vec3{}, mgl64.Vec3{0, -1, 0}, mgl64.Vec3{}, 1, 3, 0.3)
	bounds := []boundary.Entry{
		boundary.ShapeEntry(boundary.Sphere{Radius: 0.1}, 1),
		boundary.ShapeEntry(boundary.Capsule{A: mgl64.Vec3{-1, 0, 0}, B: mgl64.Vec3{1, 0, 0}, Radius: 0.05}, 2),
	}

	out := StrandsToSVG(solver.Strands(), bounds, View{Span: 1}, 200, 200)
	if !strings.HasPrefix(out, "<?xml") {
		t.Fatal("missing xml header")
	}
	if strings.Count(out, "<path") != 1 {
		t.Error("want one strand path")
	}
	if !strings.Contains(out, "<circle") || !strings.Contains(out, "<line") {
		t.Error("boundaries not drawn")
	}
	if StrandsToSVG(nil, nil, View{}, 0, 10) != "" {
		t.Error("zero size should render nothing")
	}
}
