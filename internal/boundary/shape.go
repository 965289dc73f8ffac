package boundary

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Handle identifies an obstacle instance. It is used for deduplication and
// ordering only.
type Handle uint32

type ShapeKind uint8

const (
	ShapeCapsule ShapeKind = iota
	ShapeSphere
	ShapeTorus
	ShapeCube
)

var shapeKindNames = map[ShapeKind]string{
	ShapeCapsule: "capsule",
	ShapeSphere:  "sphere",
	ShapeTorus:   "torus",
	ShapeCube:    "cube",
}

func (k ShapeKind) String() string {
	if name, ok := shapeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", uint8(k))
}

// ParseShapeKind accepts the lower-case names printed by String.
func ParseShapeKind(s string) (ShapeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range shapeKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

// Shape is the analytic half of the boundary sum type. The set of
// implementations is closed to this package.
type Shape interface {
	Kind() ShapeKind
	shape()
}

type Capsule struct {
	A, B   mgl64.Vec3
	Radius float64
}

type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

type Torus struct {
	Center      mgl64.Vec3
	Axis        mgl64.Vec3
	MajorRadius float64
	MinorRadius float64
}

// Cube is a unit box (half extent 0.5) in the space reached through InvM.
type Cube struct {
	InvM mgl64.Mat4
}

func (Capsule) Kind() ShapeKind { return ShapeCapsule }
func (Sphere) Kind() ShapeKind  { return ShapeSphere }
func (Torus) Kind() ShapeKind   { return ShapeTorus }
func (Cube) Kind() ShapeKind    { return ShapeCube }

func (Capsule) shape() {}
func (Sphere) shape()  {}
func (Torus) shape()   {}
func (Cube) shape()    {}

// NewCube builds a cube from its world transform, i.e. the matrix that maps
// the unit box onto the obstacle.
func NewCube(localToWorld mgl64.Mat4) Cube {
	return Cube{InvM: localToWorld.Inv()}
}

// Volume is a sampled distance field placed in the world. WorldToUVW maps
// world positions into the normalized [0,1]^3 coordinates of the field.
type Volume struct {
	WorldToUVW mgl64.Mat4
	Field      Sampler
}

type EntryType uint8

const (
	EntryVolume EntryType = iota
	EntryShape
)

func (t EntryType) String() string {
	switch t {
	case EntryVolume:
		return "sdf"
	case EntryShape:
		return "shape"
	default:
		return fmt.Sprintf("entry(%d)", uint8(t))
	}
}

// Entry is the runtime form of one boundary. It is rebuilt on every gather.
type Entry struct {
	Type   EntryType
	Shape  Shape
	Volume Volume
	Handle Handle
}

func ShapeEntry(s Shape, h Handle) Entry {
	return Entry{Type: EntryShape, Shape: s, Handle: h}
}

func VolumeEntry(v Volume, h Handle) Entry {
	return Entry{Type: EntryVolume, Volume: v, Handle: h}
}

// Describe returns a short label such as "sphere" or "sdf".
func (e Entry) Describe() string {
	if e.Type == EntryShape && e.Shape != nil {
		return e.Shape.Kind().String()
	}
	return e.Type.String()
}
