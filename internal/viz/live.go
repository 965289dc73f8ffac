package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hairsim/internal/sim"
	"github.com/san-kum/hairsim/internal/strands"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	historyCapacity = 120

	hitchDt    = 0.5
	minFrameDt = 1.0 / 240
	maxFrameDt = 0.25
)

type TickMsg time.Time

// Model plays a simulator in real time. Every tick renders one frame of
// frameDt seconds, whatever the wall clock did.
type Model struct {
	sim     *sim.Simulator
	solver  *strands.Solver
	canvas  *Canvas
	frameDt float64

	paused bool
	hitch  bool
	last   sim.FrameStats

	steps    []float64
	smoothed []float64
}

func NewModel(s *sim.Simulator, solver *strands.Solver, frameDt float64) Model {
	if frameDt <= 0 {
		frameDt = 1.0 / 60
	}
	return Model{
		sim:      s,
		solver:   solver,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		frameDt:  frameDt,
		steps:    make([]float64, 0, historyCapacity),
		smoothed: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.frameDt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "h":
			m.hitch = true
		case "+", "=":
			m.frameDt = math.Max(m.frameDt/2, minFrameDt)
		case "-", "_":
			m.frameDt = math.Min(m.frameDt*2, maxFrameDt)
		case "r":
			m.sim.Restore(sim.Accumulator{})
		}
	case TickMsg:
		if !m.paused {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	dt := m.frameDt
	if m.hitch {
		dt = hitchDt
		m.hitch = false
	}
	m.last = m.sim.Frame(dt)
	m.steps = pushHistory(m.steps, float64(m.last.Steps))
	m.smoothed = pushHistory(m.smoothed, m.last.Smoothed)
}

func pushHistory(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

func (m Model) View() string {
	left := panelStyle.Render(m.drawStrands())
	right := statsStyle.Render(m.stats())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" +
		helpStyle.Render("space pause · h hitch · +/- frame time · r reset · q quit")
}

func (m Model) drawStrands() string {
	m.canvas.Clear()
	if m.solver == nil {
		return m.canvas.String()
	}
	b := m.solver.Bounds()
	v := View{CenterX: b.Center.X(), CenterY: b.Center.Y(), Span: 2 * b.MaxExtent()}
	for _, st := range m.solver.Strands() {
		for j := 1; j < len(st.Position); j++ {
			x0, y0 := v.Dot(m.canvas, st.Position[j-1].X(), st.Position[j-1].Y())
			x1, y1 := v.Dot(m.canvas, st.Position[j].X(), st.Position[j].Y())
			m.canvas.Line(x0, y0, x1, y1)
		}
	}
	return m.canvas.String()
}

func (m Model) stats() string {
	var s strings.Builder

	status := runningStyle.Render("RUNNING")
	if m.paused {
		status = pausedStyle.Render("PAUSED")
	}
	s.WriteString(headerStyle.Render("hairsim") + "  " + status + "\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("frame", fmt.Sprintf("%d", m.last.Frame))
	row("frame dt", fmt.Sprintf("%.4fs", m.frameDt))
	row("steps", fmt.Sprintf("%d", m.last.Steps))
	row("smoothed", fmt.Sprintf("%.2f", m.last.Smoothed))
	row("accumulated", fmt.Sprintf("%.4fs", m.last.Accumulated))
	row("boundaries", fmt.Sprintf("%d", m.last.Boundaries))
	if m.solver != nil {
		row("contacts", fmt.Sprintf("%d", m.solver.Contacts()))
	}
	if m.last.Skipped > 0 {
		s.WriteString(labelStyle.Render("skipped") + warnStyle.Render(fmt.Sprintf("%d", m.last.Skipped)) + "\n")
	}

	if len(m.smoothed) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.steps, m.smoothed},
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("steps / smoothed"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	return s.String()
}
