package gather_test

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/gather"
)

type fakeBoundary struct {
	active bool
	entry  boundary.Entry
}

func (b *fakeBoundary) ActiveAndEnabled() bool { return b != nil && b.active }

func (b *fakeBoundary) RuntimeEntry() (boundary.Entry, bool) { return b.entry, true }

func sphereAt(h boundary.Handle, x float64) *fakeBoundary {
	return &fakeBoundary{
		active: true,
		entry:  boundary.ShapeEntry(boundary.Sphere{Center: mgl64.Vec3{x, 0, 0}, Radius: 0.5}, h),
	}
}

type fakeCollider struct {
	trigger bool
	desc    boundary.ColliderDesc
}

func (c *fakeCollider) Enabled() bool                   { return true }
func (c *fakeCollider) IsTrigger() bool                 { return c.trigger }
func (c *fakeCollider) Describe() boundary.ColliderDesc { return c.desc }

func boxCollider(h boundary.Handle, x float64) *fakeCollider {
	return &fakeCollider{desc: boundary.ColliderDesc{
		Kind:         boundary.ColliderBox,
		Size:         mgl64.Vec3{1, 1, 1},
		LocalToWorld: mgl64.Translate3D(x, 0, 0),
		Handle:       h,
	}}
}

type fakeCandidate struct {
	boundaries []boundary.Authored
	collider   boundary.Collider
}

func (c *fakeCandidate) Boundaries() []boundary.Authored { return c.boundaries }
func (c *fakeCandidate) Collider() boundary.Collider     { return c.collider }

// fakeQuerier returns its candidates in the stored order, honouring the
// output capacity but reporting the full count.
type fakeQuerier struct {
	candidates []gather.Candidate
	calls      int
}

func (q *fakeQuerier) OverlapBox(center, extents mgl64.Vec3, orientation mgl64.Quat, out []gather.Candidate) int {
	q.calls++
	copy(out, q.candidates)
	return len(q.candidates)
}

func handles(entries []boundary.Entry) []boundary.Handle {
	hs := make([]boundary.Handle, len(entries))
	for i, e := range entries {
		hs[i] = e.Handle
	}
	return hs
}

func volume() gather.QueryVolume {
	return gather.QueryVolume{
		Center:      mgl64.Vec3{},
		Extents:     mgl64.Vec3{2, 1, 1},
		Orientation: mgl64.QuatIdent(),
	}
}
