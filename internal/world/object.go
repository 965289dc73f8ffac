// Package world holds the scene the strands live in: objects with authored
// boundaries and colliders, and the R-tree that answers broad-phase queries.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
)

type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Matrix returns translate * rotate * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	p := t.Position
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl64.QuatIdent()
	}
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Object is one scene node. It carries at most one collider and any number
// of authored boundaries, all sharing the object's handle.
type Object struct {
	Name      string
	Handle    boundary.Handle
	Transform Transform
	Active    bool

	boundaries []*BoundaryComponent
	collider   *ColliderComponent
}

func NewObject(name string, handle boundary.Handle) *Object {
	return &Object{
		Name:      name,
		Handle:    handle,
		Transform: IdentityTransform(),
		Active:    true,
	}
}

func (o *Object) AddBoundary(b *BoundaryComponent) {
	b.owner = o
	o.boundaries = append(o.boundaries, b)
}

func (o *Object) SetCollider(c *ColliderComponent) {
	if c != nil {
		c.owner = o
	}
	o.collider = c
}

func (o *Object) BoundaryComponents() []*BoundaryComponent { return o.boundaries }

// Boundaries implements gather.Candidate.
func (o *Object) Boundaries() []boundary.Authored {
	out := make([]boundary.Authored, len(o.boundaries))
	for i, b := range o.boundaries {
		out[i] = b
	}
	return out
}

// Collider implements gather.Candidate. It returns a nil interface, not a
// typed nil, when the object has no collider.
func (o *Object) Collider() boundary.Collider {
	if o.collider == nil {
		return nil
	}
	return o.collider
}

// Bounds returns the world AABB covering every boundary and the collider.
func (o *Object) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	lo = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	grow := func(e boundary.Entry) {
		elo, ehi := EntryBounds(e)
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], elo[i])
			hi[i] = math.Max(hi[i], ehi[i])
		}
		ok = true
	}

	for _, b := range o.boundaries {
		if e, built := b.RuntimeEntry(); built {
			grow(e)
		}
	}
	if o.collider != nil {
		d := o.collider.Describe()
		if s, built := boundary.ShapeFromCollider(d, boundary.ShapeCube); built {
			grow(boundary.ShapeEntry(s, o.Handle))
		}
	}
	return lo, hi, ok
}

// EntryBounds returns a conservative world AABB for a runtime boundary.
func EntryBounds(e boundary.Entry) (lo, hi mgl64.Vec3) {
	if e.Type == boundary.EntryVolume {
		return transformedUnitBounds(e.Volume.WorldToUVW.Inv(), mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	}

	switch s := e.Shape.(type) {
	case boundary.Sphere:
		r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
		return s.Center.Sub(r), s.Center.Add(r)
	case boundary.Capsule:
		r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
		return minVec(s.A, s.B).Sub(r), maxVec(s.A, s.B).Add(r)
	case boundary.Torus:
		ext := s.MajorRadius + s.MinorRadius
		r := mgl64.Vec3{ext, ext, ext}
		return s.Center.Sub(r), s.Center.Add(r)
	case boundary.Cube:
		return transformedUnitBounds(s.InvM.Inv(), mgl64.Vec3{-0.5, -0.5, -0.5}, mgl64.Vec3{0.5, 0.5, 0.5})
	default:
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
}

func transformedUnitBounds(m mgl64.Mat4, a, b mgl64.Vec3) (lo, hi mgl64.Vec3) {
	lo = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for c := 0; c < 8; c++ {
		corner := a
		for i := 0; i < 3; i++ {
			if c&(1<<i) != 0 {
				corner[i] = b[i]
			}
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		lo = minVec(lo, p)
		hi = maxVec(hi, p)
	}
	return lo, hi
}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}
