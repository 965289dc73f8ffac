package world

import (
	"fmt"
	"os"
	"slices"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	defaultBakeResolution = 32
	defaultBakePad        = 0.1
)

// --- YAML types ---

type SceneFile struct {
	Objects []ObjectDef `yaml:"objects"`
	Strands []StrandDef `yaml:"strands"`
}

type ObjectDef struct {
	Name     string        `yaml:"name"`
	Position [3]float64    `yaml:"position"`
	Rotation [3]float64    `yaml:"rotation"` // Euler angles in degrees
	Scale    [3]float64    `yaml:"scale"`
	Inactive bool          `yaml:"inactive,omitempty"`
	Explicit bool          `yaml:"explicit,omitempty"`
	Boundary []BoundaryDef `yaml:"boundaries,omitempty"`
	Collider *ColliderDef  `yaml:"collider,omitempty"`
}

type BoundaryDef struct {
	Type     string     `yaml:"type"`
	Disabled bool       `yaml:"disabled,omitempty"`
	Center   [3]float64 `yaml:"center,omitempty"`
	Size     [3]float64 `yaml:"size,omitempty"`
	Radius   float64    `yaml:"radius,omitempty"`
	Height   float64    `yaml:"height,omitempty"`
	Major    float64    `yaml:"major,omitempty"`
	Minor    float64    `yaml:"minor,omitempty"`
	Axis     int        `yaml:"axis,omitempty"`
	Solid    *SolidDef  `yaml:"solid,omitempty"`
}

// SolidDef is an sdfx primitive baked into a sampled field.
type SolidDef struct {
	Shape      string     `yaml:"shape"`
	Radius     float64    `yaml:"radius,omitempty"`
	Size       [3]float64 `yaml:"size,omitempty"`
	Height     float64    `yaml:"height,omitempty"`
	Round      float64    `yaml:"round,omitempty"`
	Resolution int        `yaml:"resolution,omitempty"`
	Pad        float64    `yaml:"pad,omitempty"`
}

type ColliderDef struct {
	Type      string     `yaml:"type"`
	Center    [3]float64 `yaml:"center,omitempty"`
	Size      [3]float64 `yaml:"size,omitempty"`
	Radius    float64    `yaml:"radius,omitempty"`
	Height    float64    `yaml:"height,omitempty"`
	Direction int        `yaml:"direction,omitempty"`
	Trigger   bool       `yaml:"trigger,omitempty"`
	Disabled  bool       `yaml:"disabled,omitempty"`
}

// StrandDef describes a patch of strands rooted on a line.
type StrandDef struct {
	Root      [3]float64 `yaml:"root"`
	Direction [3]float64 `yaml:"direction"`
	Spread    [3]float64 `yaml:"spread"`
	Count     int        `yaml:"count"`
	Segments  int        `yaml:"segments"`
	Length    float64    `yaml:"length"`
}

// Scene is a loaded scene: indexed objects, the explicitly assigned
// boundaries and the strand definitions for the solver.
type Scene struct {
	Space    *Space
	Explicit []boundary.Authored
	Strands  []StrandDef
}

// Move places o at t and re-indexes it. Boundaries always read the current
// transform, so only the broad phase needs the update.
func (s *Scene) Move(o *Object, t Transform) error {
	o.Transform = t
	return s.Space.Update(o)
}

// Remove drops o from the broad phase and from the explicit list, and
// deactivates it so lists copied earlier stop yielding its boundaries.
func (s *Scene) Remove(o *Object) bool {
	o.Active = false
	s.Explicit = slices.DeleteFunc(s.Explicit, func(a boundary.Authored) bool {
		b, ok := a.(*BoundaryComponent)
		return ok && b.Owner() == o
	})
	return s.Space.Remove(o)
}

// --- Loading ---

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

func ParseScene(data []byte) (*Scene, error) {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return BuildScene(sf)
}

// BuildScene creates the objects of sf. Handles are assigned in file order
// starting at 1.
func BuildScene(sf SceneFile) (*Scene, error) {
	scene := &Scene{Space: NewSpace(), Strands: sf.Strands}

	for i, def := range sf.Objects {
		o := NewObject(def.Name, boundary.Handle(i+1))
		o.Active = !def.Inactive
		o.Transform = Transform{
			Position: vec(def.Position),
			Rotation: eulerDegrees(def.Rotation),
			Scale:    vec(def.Scale),
		}
		if def.Scale == [3]float64{} {
			o.Transform.Scale = mgl64.Vec3{1, 1, 1}
		}

		for _, bd := range def.Boundary {
			b, err := buildBoundary(bd)
			if err != nil {
				return nil, fmt.Errorf("object %q: %w", def.Name, err)
			}
			o.AddBoundary(b)
			if def.Explicit {
				scene.Explicit = append(scene.Explicit, b)
			}
		}

		if def.Collider != nil {
			c, err := buildCollider(*def.Collider)
			if err != nil {
				return nil, fmt.Errorf("object %q: %w", def.Name, err)
			}
			o.SetCollider(c)
		}

		if err := scene.Space.Insert(o); err != nil {
			return nil, err
		}
	}

	return scene, nil
}

func buildBoundary(def BoundaryDef) (*BoundaryComponent, error) {
	if def.Type == "sdf" {
		if def.Solid == nil {
			return nil, fmt.Errorf("%w: sdf boundary without solid", dynamo.ErrUnknownShape)
		}
		grid, localToUVW, err := bakeSolid(*def.Solid)
		if err != nil {
			return nil, err
		}
		b := NewFieldBoundary(grid, localToUVW)
		b.Enabled = !def.Disabled
		return b, nil
	}

	kind, err := boundary.ParseShapeKind(def.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownShape, err)
	}
	b := NewShapeBoundary(ShapeDef{
		Kind:        kind,
		Center:      vec(def.Center),
		Size:        vec(def.Size),
		Radius:      def.Radius,
		Height:      def.Height,
		MajorRadius: def.Major,
		MinorRadius: def.Minor,
		Axis:        def.Axis,
	})
	b.Enabled = !def.Disabled
	return b, nil
}

func buildCollider(def ColliderDef) (*ColliderComponent, error) {
	kind, err := boundary.ParseColliderKind(def.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownShape, err)
	}
	return &ColliderComponent{
		Kind:      kind,
		Center:    vec(def.Center),
		Size:      vec(def.Size),
		Radius:    def.Radius,
		Height:    def.Height,
		Direction: def.Direction,
		Trigger:   def.Trigger,
		Disabled:  def.Disabled,
	}, nil
}

// bakeSolid samples an sdfx primitive centered on the local origin.
func bakeSolid(def SolidDef) (*boundary.Grid, mgl64.Mat4, error) {
	var (
		s   sdf.SDF3
		err error
	)
	switch def.Shape {
	case "sphere":
		s, err = sdf.Sphere3D(def.Radius)
	case "box":
		s, err = sdf.Box3D(v3.Vec{X: def.Size[0], Y: def.Size[1], Z: def.Size[2]}, def.Round)
	case "cylinder":
		s, err = sdf.Cylinder3D(def.Height, def.Radius, def.Round)
	default:
		return nil, mgl64.Ident4(), fmt.Errorf("%w: solid %q", dynamo.ErrUnknownShape, def.Shape)
	}
	if err != nil {
		return nil, mgl64.Ident4(), fmt.Errorf("solid %q: %w", def.Shape, err)
	}

	res := def.Resolution
	if res == 0 {
		res = defaultBakeResolution
	}
	pad := def.Pad
	if pad == 0 {
		pad = defaultBakePad
	}
	return boundary.BakeGrid(s, res, pad)
}

func vec(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

// eulerDegrees applies X, then Y, then Z rotations.
func eulerDegrees(a [3]float64) mgl64.Quat {
	x := mgl64.QuatRotate(mgl64.DegToRad(a[0]), mgl64.Vec3{1, 0, 0})
	y := mgl64.QuatRotate(mgl64.DegToRad(a[1]), mgl64.Vec3{0, 1, 0})
	z := mgl64.QuatRotate(mgl64.DegToRad(a[2]), mgl64.Vec3{0, 0, 1})
	return z.Mul(y).Mul(x)
}

// DefaultScene is a head with a shoulder collider and a fringe of strands
// hanging over the forehead.
func DefaultScene() SceneFile {
	return SceneFile{
		Objects: []ObjectDef{
			{
				Name:     "head",
				Explicit: true,
				Boundary: []BoundaryDef{{Type: "sphere", Radius: 0.1}},
			},
			{
				Name:     "shoulders",
				Position: [3]float64{0, -0.2, 0},
				Collider: &ColliderDef{Type: "capsule", Radius: 0.06, Height: 0.4, Direction: 0},
			},
		},
		Strands: []StrandDef{
			{
				Root:      [3]float64{0, 0.1, 0.02},
				Direction: [3]float64{0, -0.2, 1},
				Spread:    [3]float64{0.12, 0, 0},
				Count:     16,
				Segments:  12,
				Length:    0.25,
			},
		},
	}
}
