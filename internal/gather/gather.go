// Package gather collects the boundaries a strand volume can collide with.
//
// Boundaries come from an explicit list and, optionally, from a broad-phase
// box query against the world. The merged list is deduplicated by transform
// handle and ordered either by proximity to the query volume or, when
// proximity sorting is off, by handle and insertion order.
package gather

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
)

const (
	// MaxOverlapCount bounds the candidates a single spatial query may return.
	MaxOverlapCount = 32

	// MaxEntries is the largest list the 16-bit index field of a sort key can
	// address. Entries past it are dropped in arrival order.
	MaxEntries = 1 << 16
)

// Candidate is one object returned by the broad phase: the authored boundary
// components attached to it and its physical collider, if any.
type Candidate interface {
	Boundaries() []boundary.Authored
	Collider() boundary.Collider
}

// Querier is the spatial query provider. OverlapBox writes at most len(out)
// candidates overlapping the oriented box and returns how many it wrote. The
// order is provider-defined.
type Querier interface {
	OverlapBox(center, extents mgl64.Vec3, orientation mgl64.Quat, out []Candidate) int
}

// QueryVolume is an oriented box given by center and half extents.
type QueryVolume struct {
	Center      mgl64.Vec3
	Extents     mgl64.Vec3
	Orientation mgl64.Quat
}

// MaxExtent returns the largest absolute half extent.
func (v QueryVolume) MaxExtent() float64 {
	e := v.Extents
	return math.Max(math.Abs(e.X()), math.Max(math.Abs(e.Y()), math.Abs(e.Z())))
}

type Options struct {
	SortByProximity  bool
	SpatialQuery     bool
	IncludeColliders bool
	Volume           QueryVolume
}

// Context owns the scratch state of a gather: the handle set, the output
// list, the pre-sort copy, the key buffer and the broad-phase candidate
// buffer. Gather clears and reuses all of them, so the slice it returns
// aliases the context and is only valid until the next call. A Context must
// not be used from more than one goroutine at a time; give each caller its
// own.
type Context struct {
	querier Querier
	table   boundary.ColliderTable

	seen       map[boundary.Handle]struct{}
	list       []boundary.Entry
	presort    []boundary.Entry
	keys       []uint64
	candidates [MaxOverlapCount]Candidate
}

// NewContext creates a gather context. querier may be nil, in which case
// spatial queries find nothing; a nil table falls back to the default
// collider mapping.
func NewContext(querier Querier, table boundary.ColliderTable) *Context {
	if table == nil {
		table = boundary.DefaultColliderTable()
	}
	return &Context{
		querier: querier,
		table:   table,
		seen:    make(map[boundary.Handle]struct{}),
	}
}

// Gather merges explicit with the broad-phase results described by opts and
// returns the ordered, handle-unique list.
func (c *Context) Gather(explicit []boundary.Authored, opts Options) []boundary.Entry {
	clear(c.seen)
	c.list = c.list[:0]

	for _, a := range explicit {
		c.addAuthored(a)
	}

	if opts.SpatialQuery && c.querier != nil {
		c.gatherVolume(opts)
	}

	c.sort(opts)
	return c.list
}

func (c *Context) gatherVolume(opts Options) {
	v := opts.Volume
	n := c.querier.OverlapBox(v.Center, v.Extents, v.Orientation, c.candidates[:])
	n = min(max(n, 0), MaxOverlapCount)
	found := c.candidates[:n]

	for _, cand := range found {
		if cand == nil {
			continue
		}
		for _, a := range cand.Boundaries() {
			c.addAuthored(a)
		}
	}

	if opts.IncludeColliders {
		for _, cand := range found {
			if cand == nil {
				continue
			}
			if e, ok := boundary.TryCollider(cand.Collider(), c.table); ok {
				c.add(e)
			}
		}
	}

	clear(c.candidates[:])
}

func (c *Context) addAuthored(a boundary.Authored) {
	if e, ok := boundary.TryAuthored(a); ok {
		c.add(e)
	}
}

func (c *Context) add(e boundary.Entry) {
	if _, dup := c.seen[e.Handle]; dup {
		return
	}
	if len(c.list) >= MaxEntries {
		return
	}
	c.seen[e.Handle] = struct{}{}
	c.list = append(c.list, e)
}

func (c *Context) sort(opts Options) {
	n := len(c.list)
	if n < 2 {
		return
	}

	extent := opts.Volume.MaxExtent()

	c.keys = c.keys[:0]
	for i, e := range c.list {
		var q uint16
		if opts.SortByProximity {
			q = Quantize(boundary.Distance(opts.Volume.Center, e), extent)
		}
		c.keys = append(c.keys, SortKey(q, e.Handle, i))
	}

	slices.Sort(c.keys)

	c.presort = append(c.presort[:0], c.list...)
	for i, k := range c.keys {
		c.list[i] = c.presort[k&0xffff]
	}
	clear(c.presort)
}

// Quantize maps a signed distance, measured in units of extent and clipped
// to [-2, 2], onto the full unsigned 16-bit range.
func Quantize(sd, extent float64) uint16 {
	if math.IsNaN(sd) {
		sd = boundary.FarDistance
	}
	if !(extent > 0) {
		extent = math.SmallestNonzeroFloat64
	}

	clipped := mgl64.Clamp(sd/extent, -2, 2)
	unit := mgl64.Clamp(clipped*0.25+0.5, 0, 1)
	return uint16(unit * math.MaxUint16)
}

// SortKey packs distance bucket, handle and list index so that plain
// unsigned ordering sorts by distance, then handle, then index.
func SortKey(q uint16, h boundary.Handle, index int) uint64 {
	return uint64(q)<<48 | uint64(h)<<16 | uint64(index)&0xffff
}

// KeyDistance and KeyHandle unpack the fields written by SortKey.
func KeyDistance(key uint64) uint16 { return uint16(key >> 48) }

func KeyHandle(key uint64) boundary.Handle { return boundary.Handle(key >> 16) }
