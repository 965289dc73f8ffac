package boundary

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Authored is an explicitly authored boundary component.
type Authored interface {
	ActiveAndEnabled() bool
	RuntimeEntry() (Entry, bool)
}

// Collider is a generic physical collider that may stand in for a boundary.
type Collider interface {
	Enabled() bool
	IsTrigger() bool
	Describe() ColliderDesc
}

type ColliderKind uint8

const (
	ColliderBox ColliderKind = iota
	ColliderSphere
	ColliderCapsule
	ColliderMesh
)

var colliderKindNames = map[ColliderKind]string{
	ColliderBox:     "box",
	ColliderSphere:  "sphere",
	ColliderCapsule: "capsule",
	ColliderMesh:    "mesh",
}

func (k ColliderKind) String() string {
	if name, ok := colliderKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("collider(%d)", uint8(k))
}

func ParseColliderKind(s string) (ColliderKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range colliderKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown collider kind %q", s)
}

// ColliderDesc is the engine-neutral description of a collider. Center, Size,
// Radius and Height are in the collider's local space; Direction is the local
// capsule axis (0=x, 1=y, 2=z). Mesh colliders report their local bounds in
// Center and Size.
type ColliderDesc struct {
	Kind         ColliderKind
	Center       mgl64.Vec3
	Size         mgl64.Vec3
	Radius       float64
	Height       float64
	Direction    int
	LocalToWorld mgl64.Mat4
	Handle       Handle
}

// ColliderTable decides which analytic shape stands in for each collider
// kind. Kinds missing from the table are not collidable.
type ColliderTable map[ColliderKind]ShapeKind

func DefaultColliderTable() ColliderTable {
	return ColliderTable{
		ColliderBox:     ShapeCube,
		ColliderSphere:  ShapeSphere,
		ColliderCapsule: ShapeCapsule,
	}
}

// TryAuthored converts an authored boundary, skipping nil and inactive ones.
func TryAuthored(a Authored) (Entry, bool) {
	if a == nil || !a.ActiveAndEnabled() {
		return Entry{}, false
	}
	return a.RuntimeEntry()
}

// TryCollider infers a boundary from a physical collider. Triggers,
// disabled colliders and kinds without a table mapping are skipped.
func TryCollider(c Collider, table ColliderTable) (Entry, bool) {
	if c == nil || !c.Enabled() || c.IsTrigger() {
		return Entry{}, false
	}
	d := c.Describe()
	kind, ok := table[d.Kind]
	if !ok {
		return Entry{}, false
	}
	s, ok := ShapeFromCollider(d, kind)
	if !ok {
		return Entry{}, false
	}
	return ShapeEntry(s, d.Handle), true
}

// ShapeFromCollider builds the requested analytic shape from a collider.
// Tori have no collider equivalent.
func ShapeFromCollider(d ColliderDesc, kind ShapeKind) (Shape, bool) {
	m := d.LocalToWorld
	scale := axisScales(m)

	switch kind {
	case ShapeSphere:
		return Sphere{
			Center: transformPoint(m, d.Center),
			Radius: d.localRadius() * maxComponent(scale),
		}, true

	case ShapeCapsule:
		dir, height, radius := d.localCapsule()
		half := math.Max(height*0.5-radius, 0)
		var offset mgl64.Vec3
		offset[dir] = half

		var other float64
		for i := 0; i < 3; i++ {
			if i != dir {
				other = math.Max(other, scale[i])
			}
		}
		return Capsule{
			A:      transformPoint(m, d.Center.Sub(offset)),
			B:      transformPoint(m, d.Center.Add(offset)),
			Radius: radius * other,
		}, true

	case ShapeCube:
		size := d.localSize()
		if size.X() == 0 || size.Y() == 0 || size.Z() == 0 {
			return nil, false
		}
		local := mgl64.Translate3D(d.Center.X(), d.Center.Y(), d.Center.Z()).
			Mul4(mgl64.Scale3D(size.X(), size.Y(), size.Z()))
		return NewCube(m.Mul4(local)), true

	default:
		return nil, false
	}
}

func (d ColliderDesc) localSize() mgl64.Vec3 {
	switch d.Kind {
	case ColliderSphere:
		s := 2 * d.Radius
		return mgl64.Vec3{s, s, s}
	case ColliderCapsule:
		s := 2 * d.Radius
		size := mgl64.Vec3{s, s, s}
		size[clampAxis(d.Direction)] = math.Max(d.Height, s)
		return size
	default:
		return d.Size
	}
}

func (d ColliderDesc) localRadius() float64 {
	switch d.Kind {
	case ColliderSphere, ColliderCapsule:
		return d.Radius
	default:
		return 0.5 * maxComponent(d.Size)
	}
}

// localCapsule returns axis, total height and radius of the capsule that
// best covers the collider.
func (d ColliderDesc) localCapsule() (int, float64, float64) {
	switch d.Kind {
	case ColliderCapsule:
		return clampAxis(d.Direction), d.Height, d.Radius
	case ColliderSphere:
		return 1, 2 * d.Radius, d.Radius
	default:
		dir := 0
		for i := 1; i < 3; i++ {
			if d.Size[i] > d.Size[dir] {
				dir = i
			}
		}
		var radius float64
		for i := 0; i < 3; i++ {
			if i != dir {
				radius = math.Max(radius, 0.5*d.Size[i])
			}
		}
		return dir, d.Size[dir], radius
	}
}

func clampAxis(dir int) int {
	if dir < 0 || dir > 2 {
		return 1
	}
	return dir
}

func axisScales(m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
}

func maxComponent(v mgl64.Vec3) float64 {
	return math.Max(math.Abs(v.X()), math.Max(math.Abs(v.Y()), math.Abs(v.Z())))
}
