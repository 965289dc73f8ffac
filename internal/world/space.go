package world

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/gather"
)

const (
	treeMinChildren = 2
	treeMaxChildren = 8

	// minRectLength keeps degenerate bounds representable; the R-tree rejects
	// zero-length sides.
	minRectLength = 1e-9
)

type indexed struct {
	obj  *Object
	rect rtreego.Rect
}

func (i *indexed) Bounds() rtreego.Rect { return i.rect }

// Space is the broad-phase index over object bounds. Bounds are captured on
// Insert; call Update after moving an object.
type Space struct {
	tree  *rtreego.Rtree
	items map[*Object]*indexed
	order []*Object
}

func NewSpace() *Space {
	return &Space{
		tree:  rtreego.NewTree(3, treeMinChildren, treeMaxChildren),
		items: make(map[*Object]*indexed),
	}
}

func (s *Space) Len() int { return len(s.order) }

// Objects returns the indexed objects in insertion order.
func (s *Space) Objects() []*Object { return s.order }

// Insert indexes o. Objects without any boundary or collider are kept in
// the object list but never returned by queries.
func (s *Space) Insert(o *Object) error {
	if _, dup := s.items[o]; dup {
		return fmt.Errorf("world: object %q already indexed", o.Name)
	}
	s.order = append(s.order, o)
	return s.index(o)
}

func (s *Space) index(o *Object) error {
	lo, hi, ok := o.Bounds()
	if !ok {
		return nil
	}
	rect, err := rectFromBounds(lo, hi)
	if err != nil {
		return fmt.Errorf("world: index %q: %w", o.Name, err)
	}
	it := &indexed{obj: o, rect: rect}
	s.items[o] = it
	s.tree.Insert(it)
	return nil
}

// Update re-reads the bounds of o after it moved or changed shape.
func (s *Space) Update(o *Object) error {
	if it, ok := s.items[o]; ok {
		s.tree.Delete(it)
		delete(s.items, o)
	}
	return s.index(o)
}

func (s *Space) Remove(o *Object) bool {
	found := false
	if it, ok := s.items[o]; ok {
		s.tree.Delete(it)
		delete(s.items, o)
		found = true
	}
	for i, other := range s.order {
		if other == o {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return true
		}
	}
	return found
}

// OverlapBox implements gather.Querier. The oriented box is widened to its
// world AABB, so results may include objects that only touch the corners of
// that AABB.
func (s *Space) OverlapBox(center, extents mgl64.Vec3, orientation mgl64.Quat, out []gather.Candidate) int {
	if len(out) == 0 || s.tree.Size() == 0 {
		return 0
	}

	half := orientedHalfExtents(extents, orientation)
	rect, err := rectFromBounds(center.Sub(half), center.Add(half))
	if err != nil {
		return 0
	}

	hits := s.tree.SearchIntersect(rect, rtreego.LimitFilter(len(out)))
	n := 0
	for _, h := range hits {
		if n == len(out) {
			break
		}
		out[n] = h.(*indexed).obj
		n++
	}
	return n
}

func orientedHalfExtents(extents mgl64.Vec3, q mgl64.Quat) mgl64.Vec3 {
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	r := q.Normalize().Mat4()
	var half mgl64.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			half[i] += math.Abs(r.At(i, j)) * math.Abs(extents[j])
		}
	}
	return half
}

func rectFromBounds(lo, hi mgl64.Vec3) (rtreego.Rect, error) {
	p := rtreego.Point{lo.X(), lo.Y(), lo.Z()}
	lengths := make([]float64, 3)
	for i := 0; i < 3; i++ {
		lengths[i] = math.Max(hi[i]-lo[i], minRectLength)
	}
	return rtreego.NewRect(p, lengths)
}
