package boundary

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// Sampler reads a scalar field at a normalized coordinate.
type Sampler interface {
	Sample(uvw mgl64.Vec3) float64
}

// Grid is a dense scalar field stored x-fastest. Samples sit at texel
// centers and reads outside [0,1]^3 clamp to the edge texels.
type Grid struct {
	Nx, Ny, Nz int
	Values     []float32
}

func NewGrid(nx, ny, nz int) *Grid {
	return &Grid{Nx: nx, Ny: ny, Nz: nz, Values: make([]float32, nx*ny*nz)}
}

func (g *Grid) index(i, j, k int) int {
	return (k*g.Ny+j)*g.Nx + i
}

func (g *Grid) At(i, j, k int) float64 {
	return float64(g.Values[g.index(i, j, k)])
}

func (g *Grid) Set(i, j, k int, v float64) {
	g.Values[g.index(i, j, k)] = float32(v)
}

// Sample interpolates trilinearly between the eight nearest texels.
func (g *Grid) Sample(uvw mgl64.Vec3) float64 {
	if g == nil || len(g.Values) == 0 {
		return FarDistance
	}

	i0, i1, fx := texel(uvw.X(), g.Nx)
	j0, j1, fy := texel(uvw.Y(), g.Ny)
	k0, k1, fz := texel(uvw.Z(), g.Nz)

	c00 := lerp(g.At(i0, j0, k0), g.At(i1, j0, k0), fx)
	c10 := lerp(g.At(i0, j1, k0), g.At(i1, j1, k0), fx)
	c01 := lerp(g.At(i0, j0, k1), g.At(i1, j0, k1), fx)
	c11 := lerp(g.At(i0, j1, k1), g.At(i1, j1, k1), fx)

	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}

func texel(u float64, n int) (int, int, float64) {
	x := u*float64(n) - 0.5
	fl := math.Floor(x)
	f := x - fl
	i := int(fl)
	return clampIndex(i, n), clampIndex(i+1, n), f
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

var errGridResolution = errors.New("boundary: grid resolution must be at least 2")

// BakeGrid samples an sdfx solid over its bounding box grown by pad on every
// side. It returns the field and the matrix mapping world space into it.
func BakeGrid(s sdf.SDF3, res int, pad float64) (*Grid, mgl64.Mat4, error) {
	if res < 2 {
		return nil, mgl64.Ident4(), errGridResolution
	}

	bb := s.BoundingBox()
	lo := mgl64.Vec3{bb.Min.X - pad, bb.Min.Y - pad, bb.Min.Z - pad}
	hi := mgl64.Vec3{bb.Max.X + pad, bb.Max.Y + pad, bb.Max.Z + pad}
	size := hi.Sub(lo)
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return nil, mgl64.Ident4(), fmt.Errorf("boundary: degenerate bake bounds %v", size)
	}

	g := NewGrid(res, res, res)
	for k := 0; k < res; k++ {
		for j := 0; j < res; j++ {
			for i := 0; i < res; i++ {
				p := v3.Vec{
					X: lo.X() + (float64(i)+0.5)/float64(res)*size.X(),
					Y: lo.Y() + (float64(j)+0.5)/float64(res)*size.Y(),
					Z: lo.Z() + (float64(k)+0.5)/float64(res)*size.Z(),
				}
				g.Set(i, j, k, s.Evaluate(p))
			}
		}
	}

	worldToUVW := mgl64.Scale3D(1/size.X(), 1/size.Y(), 1/size.Z()).
		Mul4(mgl64.Translate3D(-lo.X(), -lo.Y(), -lo.Z()))
	return g, worldToUVW, nil
}
