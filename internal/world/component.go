package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
)

// ShapeDef describes an analytic boundary in its owner's local space. Axis
// picks the capsule or torus axis (0=x, 1=y, 2=z).
type ShapeDef struct {
	Kind        boundary.ShapeKind
	Center      mgl64.Vec3
	Size        mgl64.Vec3
	Radius      float64
	Height      float64
	MajorRadius float64
	MinorRadius float64
	Axis        int
}

// BoundaryComponent is an authored boundary. It is either an analytic shape
// or a sampled field placed with LocalToUVW.
type BoundaryComponent struct {
	Enabled bool
	Type    boundary.EntryType
	Shape   ShapeDef

	Field      boundary.Sampler
	LocalToUVW mgl64.Mat4

	owner *Object
}

func NewShapeBoundary(def ShapeDef) *BoundaryComponent {
	return &BoundaryComponent{Enabled: true, Type: boundary.EntryShape, Shape: def}
}

func NewFieldBoundary(field boundary.Sampler, localToUVW mgl64.Mat4) *BoundaryComponent {
	return &BoundaryComponent{Enabled: true, Type: boundary.EntryVolume, Field: field, LocalToUVW: localToUVW}
}

func (b *BoundaryComponent) Owner() *Object {
	if b == nil {
		return nil
	}
	return b.owner
}

func (b *BoundaryComponent) ActiveAndEnabled() bool {
	return b != nil && b.Enabled && b.owner != nil && b.owner.Active
}

// RuntimeEntry places the boundary in world space using the owner's current
// transform.
func (b *BoundaryComponent) RuntimeEntry() (boundary.Entry, bool) {
	if b == nil || b.owner == nil {
		return boundary.Entry{}, false
	}
	m := b.owner.Transform.Matrix()
	h := b.owner.Handle

	if b.Type == boundary.EntryVolume {
		return boundary.VolumeEntry(boundary.Volume{
			WorldToUVW: b.LocalToUVW.Mul4(m.Inv()),
			Field:      b.Field,
		}, h), true
	}

	def := b.Shape
	switch def.Kind {
	case boundary.ShapeSphere:
		s, ok := boundary.ShapeFromCollider(boundary.ColliderDesc{
			Kind: boundary.ColliderSphere, Center: def.Center, Radius: def.Radius, LocalToWorld: m,
		}, boundary.ShapeSphere)
		return boundary.ShapeEntry(s, h), ok

	case boundary.ShapeCapsule:
		s, ok := boundary.ShapeFromCollider(boundary.ColliderDesc{
			Kind: boundary.ColliderCapsule, Center: def.Center, Radius: def.Radius,
			Height: def.Height, Direction: def.Axis, LocalToWorld: m,
		}, boundary.ShapeCapsule)
		return boundary.ShapeEntry(s, h), ok

	case boundary.ShapeCube:
		s, ok := boundary.ShapeFromCollider(boundary.ColliderDesc{
			Kind: boundary.ColliderBox, Center: def.Center, Size: def.Size, LocalToWorld: m,
		}, boundary.ShapeCube)
		return boundary.ShapeEntry(s, h), ok

	case boundary.ShapeTorus:
		var axis mgl64.Vec3
		axis[clampAxis(def.Axis)] = 1
		scale := maxScale(b.owner.Transform.Scale)
		return boundary.ShapeEntry(boundary.Torus{
			Center:      m.Mul4x1(def.Center.Vec4(1)).Vec3(),
			Axis:        m.Mul4x1(axis.Vec4(0)).Vec3().Normalize(),
			MajorRadius: def.MajorRadius * scale,
			MinorRadius: def.MinorRadius * scale,
		}, h), true

	default:
		return boundary.Entry{}, false
	}
}

// ColliderComponent is a physical collider. Shape values are in the owner's
// local space, as in boundary.ColliderDesc.
type ColliderComponent struct {
	Kind      boundary.ColliderKind
	Center    mgl64.Vec3
	Size      mgl64.Vec3
	Radius    float64
	Height    float64
	Direction int
	Trigger   bool
	Disabled  bool

	owner *Object
}

func (c *ColliderComponent) Enabled() bool {
	return c != nil && !c.Disabled && c.owner != nil && c.owner.Active
}

func (c *ColliderComponent) IsTrigger() bool {
	return c != nil && c.Trigger
}

func (c *ColliderComponent) Describe() boundary.ColliderDesc {
	d := boundary.ColliderDesc{
		Kind:         c.Kind,
		Center:       c.Center,
		Size:         c.Size,
		Radius:       c.Radius,
		Height:       c.Height,
		Direction:    c.Direction,
		LocalToWorld: mgl64.Ident4(),
	}
	if c.owner != nil {
		d.LocalToWorld = c.owner.Transform.Matrix()
		d.Handle = c.owner.Handle
	}
	return d
}

func clampAxis(a int) int {
	if a < 0 || a > 2 {
		return 1
	}
	return a
}

func maxScale(s mgl64.Vec3) float64 {
	return math.Max(math.Abs(s.X()), math.Max(math.Abs(s.Y()), math.Abs(s.Z())))
}
