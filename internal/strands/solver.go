// Package strands is a small position-based strand solver used to exercise
// the boundary pipeline end to end. Each strand is a chain of particles with
// a pinned root, integrated with position Verlet, kept at rest length by
// distance constraints and pushed out of every boundary it penetrates.
package strands

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/gather"
)

const (
	// boundsMarginFactor widens the root bounds to cover strands swinging
	// past their rest length.
	boundsMarginFactor = 1.5

	gradientStep = 1e-4
)

type Strand struct {
	Position []mgl64.Vec3
	Previous []mgl64.Vec3
	Segment  float64
}

func (s *Strand) Root() mgl64.Vec3 { return s.Position[0] }

func (s *Strand) Length() float64 { return s.Segment * float64(len(s.Position)-1) }

type Solver struct {
	strands []Strand

	gravity    mgl64.Vec3
	damping    float64
	iterations int
	diameter   float64 // millimeters

	scaleMode   ScaleMode
	objectScale mgl64.Vec3

	contacts  []int
	lastTotal int
}

func NewSolver() *Solver {
	return &Solver{
		gravity:     mgl64.Vec3{0, -9.81, 0},
		damping:     0.02,
		iterations:  4,
		diameter:    1.0,
		objectScale: mgl64.Vec3{1, 1, 1},
	}
}

// AddStrands lays out count strands of the given length starting at root
// and hanging along dir. Roots are spread evenly along spread.
func (s *Solver) AddStrands(root, dir, spread mgl64.Vec3, count, segments int, length float64) {
	if count <= 0 || segments <= 0 || length <= 0 {
		return
	}
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()
	seg := length / float64(segments)

	for i := 0; i < count; i++ {
		t := 0.0
		if count > 1 {
			t = float64(i)/float64(count-1) - 0.5
		}
		r := root.Add(spread.Mul(t))
		st := Strand{
			Position: make([]mgl64.Vec3, segments+1),
			Previous: make([]mgl64.Vec3, segments+1),
			Segment:  seg,
		}
		for j := range st.Position {
			p := r.Add(dir.Mul(seg * float64(j)))
			st.Position[j] = p
			st.Previous[j] = p
		}
		s.strands = append(s.strands, st)
	}
	s.contacts = make([]int, len(s.strands))
}

func (s *Solver) Strands() []Strand { return s.strands }

func (s *Solver) SetScale(mode ScaleMode, objectScale mgl64.Vec3) {
	s.scaleMode = mode
	s.objectScale = objectScale
}

func (s *Solver) Scale() float64 { return s.scaleMode.Factor(s.objectScale) }

// Contacts returns how many particles were pushed out during the last step.
func (s *Solver) Contacts() int { return s.lastTotal }

// GetParams mirrors SetParam for the tunable coefficients.
func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":    s.gravity.Y(),
		"damping":    s.damping,
		"iterations": float64(s.iterations),
		"diameter":   s.diameter,
	}
}

func (s *Solver) SetParam(name string, value float64) {
	switch name {
	case "gravity":
		s.gravity = mgl64.Vec3{0, value, 0}
	case "damping":
		s.damping = mgl64.Clamp(value, 0, 1)
	case "iterations":
		s.iterations = max(int(value), 1)
	case "diameter":
		s.diameter = math.Max(value, 0)
	}
}

// Bounds returns the simulation volume: the root bounds grown by 1.5 times
// the longest scaled strand on every side, then squared up around their
// center.
func (s *Solver) Bounds() gather.QueryVolume {
	if len(s.strands) == 0 {
		return gather.QueryVolume{Orientation: mgl64.QuatIdent()}
	}

	scale := s.Scale()
	lo := s.strands[0].Root()
	hi := lo
	margin := 0.0
	for i := range s.strands {
		r := s.strands[i].Root()
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], r[k])
			hi[k] = math.Max(hi[k], r[k])
		}
		margin = math.Max(margin, s.strands[i].Length()*scale)
	}
	margin *= boundsMarginFactor

	size := hi.Sub(lo).Add(mgl64.Vec3{2 * margin, 2 * margin, 2 * margin})
	half := 0.5 * math.Max(size.X(), math.Max(size.Y(), size.Z()))

	return gather.QueryVolume{
		Center:      lo.Add(hi).Mul(0.5),
		Extents:     mgl64.Vec3{half, half, half},
		Orientation: mgl64.QuatIdent(),
	}
}

// Step implements sim.Solver. Strands are independent, so they are solved
// in parallel; boundaries are only read.
func (s *Solver) Step(dt float64, boundaries []boundary.Entry) {
	if len(s.contacts) != len(s.strands) {
		s.contacts = make([]int, len(s.strands))
	}
	radius := 0.5 * s.diameter * 1e-3 * s.Scale()

	dynamo.ParallelFor(len(s.strands), 1, func(start, end int) {
		for i := start; i < end; i++ {
			st := &s.strands[i]
			s.integrate(st, dt)
			for it := 0; it < s.iterations; it++ {
				st.constrain()
			}
			s.contacts[i] = st.collide(boundaries, radius)
		}
	})

	s.lastTotal = 0
	for _, c := range s.contacts {
		s.lastTotal += c
	}
}

func (s *Solver) integrate(st *Strand, dt float64) {
	g := s.gravity.Mul(dt * dt)
	keep := 1 - s.damping
	for j := 1; j < len(st.Position); j++ {
		p := st.Position[j]
		v := p.Sub(st.Previous[j]).Mul(keep)
		st.Previous[j] = p
		st.Position[j] = p.Add(v).Add(g)
	}
}

// constrain restores segment lengths from the root outward. The root never
// moves.
func (st *Strand) constrain() {
	for j := 1; j < len(st.Position); j++ {
		a, b := st.Position[j-1], st.Position[j]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		corr := d.Mul((l - st.Segment) / l)
		if j == 1 {
			st.Position[j] = b.Sub(corr)
			continue
		}
		st.Position[j-1] = a.Add(corr.Mul(0.5))
		st.Position[j] = b.Sub(corr.Mul(0.5))
	}
}

func (st *Strand) collide(boundaries []boundary.Entry, radius float64) int {
	n := 0
	for j := 1; j < len(st.Position); j++ {
		p := st.Position[j]
		hit := false
		for _, e := range boundaries {
			d := boundary.Distance(p, e) - radius
			if d >= 0 {
				continue
			}
			g := boundary.Gradient(p, e, gradientStep)
			if g.Len() == 0 {
				continue
			}
			p = p.Sub(g.Normalize().Mul(d))
			hit = true
		}
		if hit {
			st.Position[j] = p
			n++
		}
	}
	return n
}
