package gui

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
)

// cubeEdges indexes pairs of cubeCorners.
var cubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// cubeCorners returns the eight world-space corners of a cube boundary.
func cubeCorners(c boundary.Cube) [8]mgl64.Vec3 {
	m := c.InvM.Inv()
	var out [8]mgl64.Vec3
	for i := range out {
		local := mgl64.Vec3{-0.5, -0.5, -0.5}
		if i&1 != 0 {
			local[0] = 0.5
		}
		if i&2 != 0 {
			local[1] = 0.5
		}
		if i&4 != 0 {
			local[2] = 0.5
		}
		out[i] = m.Mul4x1(local.Vec4(1)).Vec3()
	}
	return out
}

// ringRotation returns the axis and angle in degrees that turn a circle
// lying in the XY plane (normal +Z) to face normal.
func ringRotation(normal mgl64.Vec3) (mgl64.Vec3, float64) {
	z := mgl64.Vec3{0, 0, 1}
	if normal.Len() == 0 {
		normal = mgl64.Vec3{0, 1, 0}
	}
	n := normal.Normalize()
	axis := z.Cross(n)
	if axis.Len() < 1e-9 {
		if n.Z() < 0 {
			return mgl64.Vec3{1, 0, 0}, 180
		}
		return mgl64.Vec3{1, 0, 0}, 0
	}
	angle := math.Acos(mgl64.Clamp(z.Dot(n), -1, 1))
	return axis.Normalize(), mgl64.RadToDeg(angle)
}

// orbit places a camera on a sphere around target.
func orbit(target mgl64.Vec3, distance, yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return target.Add(mgl64.Vec3{
		distance * cp * math.Sin(yaw),
		distance * math.Sin(pitch),
		distance * cp * math.Cos(yaw),
	})
}
