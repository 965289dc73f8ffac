package boundary

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/dynamo"
)

// FarDistance is reported for any boundary that cannot be evaluated.
const FarDistance = 1e7

// torusPoleEpsilon selects the fallback basis when the torus axis is
// (anti)parallel to the global up vector.
const torusPoleEpsilon = 1e-4

var up = mgl64.Vec3{0, 1, 0}

// Distance dispatches on the boundary variant.
func Distance(p mgl64.Vec3, e Entry) float64 {
	switch e.Type {
	case EntryVolume:
		return SdVolume(p, e.Volume)
	case EntryShape:
		switch s := e.Shape.(type) {
		case Capsule:
			return SdCapsule(p, s.A, s.B, s.Radius)
		case Sphere:
			return SdSphere(p, s.Center, s.Radius)
		case Torus:
			return SdTorus(p, s.Center, s.Axis, s.MajorRadius, s.MinorRadius)
		case Cube:
			return SdCube(p, s.InvM)
		default:
			return FarDistance
		}
	default:
		return FarDistance
	}
}

func SdCapsule(p, a, b mgl64.Vec3, radius float64) float64 {
	pa := p.Sub(a)
	ba := b.Sub(a)

	h := 0.0
	if den := ba.Dot(ba); den > 0 {
		h = mgl64.Clamp(pa.Dot(ba)/den, 0, 1)
	}

	return pa.Sub(ba.Mul(h)).Len() - radius
}

func SdSphere(p, center mgl64.Vec3, radius float64) float64 {
	return p.Sub(center).Len() - radius
}

// SdTorus evaluates a torus lying in the plane perpendicular to axis.
func SdTorus(p, center, axis mgl64.Vec3, major, minor float64) float64 {
	if axis.Len() == 0 {
		axis = up
	}
	axis = axis.Normalize()

	var bx mgl64.Vec3
	if math.Abs(axis.Y()) > 1-torusPoleEpsilon {
		bx = mgl64.Vec3{1, 0, 0}
	} else {
		bx = axis.Cross(up).Normalize()
	}
	by := axis
	bz := bx.Cross(axis)

	d := p.Sub(center)
	lx, ly, lz := bx.Dot(d), by.Dot(d), bz.Dot(d)

	qx := math.Hypot(lx, lz) - major
	return math.Hypot(qx, ly) - minor
}

// SdCube evaluates the unit box (half extent 0.5) after moving p through invM.
func SdCube(p mgl64.Vec3, invM mgl64.Mat4) float64 {
	p = transformPoint(invM, p)

	qx := math.Abs(p.X()) - 0.5
	qy := math.Abs(p.Y()) - 0.5
	qz := math.Abs(p.Z()) - 0.5

	outside := mgl64.Vec3{math.Max(qx, 0), math.Max(qy, 0), math.Max(qz, 0)}.Len()
	inside := math.Min(math.Max(qx, math.Max(qy, qz)), 0)
	return outside + inside
}

// SdVolume samples the field at the normalized location of p. Points outside
// the authored bounds get whatever the sampler returns there.
func SdVolume(p mgl64.Vec3, v Volume) float64 {
	if v.Field == nil {
		return FarDistance
	}
	return v.Field.Sample(transformPoint(v.WorldToUVW, p))
}

// Gradient estimates the distance gradient with central differences of step h.
func Gradient(p mgl64.Vec3, e Entry, h float64) mgl64.Vec3 {
	var g mgl64.Vec3
	for i := 0; i < 3; i++ {
		var o mgl64.Vec3
		o[i] = h
		g[i] = (Distance(p.Add(o), e) - Distance(p.Sub(o), e)) / (2 * h)
	}
	return g
}

// batchChunk is the smallest slice of points handed to a worker.
const batchChunk = 256

// BatchDistance writes Distance(points[i], e) into out[i]. out must be at
// least as long as points.
func BatchDistance(points []mgl64.Vec3, e Entry, out []float64) {
	dynamo.ParallelFor(len(points), batchChunk, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = Distance(points[i], e)
		}
	})
}

func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
