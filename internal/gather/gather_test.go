package gather_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/gather"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Context.Gather", func() {
	var (
		q   *fakeQuerier
		ctx *gather.Context
	)

	BeforeEach(func() {
		q = &fakeQuerier{}
		ctx = gather.NewContext(q, nil)
	})

	Context("explicit list", func() {
		It("skips nil and inactive boundaries", func() {
			inactive := sphereAt(4, 1)
			inactive.active = false
			var typedNil *fakeBoundary

			got := ctx.Gather([]boundary.Authored{nil, inactive, typedNil, sphereAt(2, 1)}, gather.Options{})
			Expect(handles(got)).To(Equal([]boundary.Handle{2}))
		})

		It("keeps the first entry for a repeated handle", func() {
			first := sphereAt(6, 1)
			second := sphereAt(6, 9)

			got := ctx.Gather([]boundary.Authored{first, second}, gather.Options{})
			Expect(got).To(HaveLen(1))
			Expect(got[0].Shape.(boundary.Sphere).Center.X()).To(Equal(1.0))
		})
	})

	Context("spatial query", func() {
		It("is not issued unless requested", func() {
			ctx.Gather(nil, gather.Options{Volume: volume()})
			Expect(q.calls).To(BeZero())
		})

		It("deduplicates handles reachable from both sources", func() {
			shared := sphereAt(5, 1)
			q.candidates = []gather.Candidate{
				&fakeCandidate{boundaries: []boundary.Authored{shared}},
				&fakeCandidate{boundaries: []boundary.Authored{sphereAt(8, 1)}},
			}

			got := ctx.Gather([]boundary.Authored{shared}, gather.Options{SpatialQuery: true, Volume: volume()})
			Expect(handles(got)).To(ConsistOf(boundary.Handle(5), boundary.Handle(8)))
		})

		It("does not count an object twice as boundary and collider", func() {
			q.candidates = []gather.Candidate{
				&fakeCandidate{
					boundaries: []boundary.Authored{sphereAt(7, 1)},
					collider:   boxCollider(7, 1),
				},
			}

			got := ctx.Gather(nil, gather.Options{SpatialQuery: true, IncludeColliders: true, Volume: volume()})
			Expect(got).To(HaveLen(1))
			Expect(got[0].Shape.Kind()).To(Equal(boundary.ShapeSphere))
		})

		It("only includes untagged colliders when asked", func() {
			q.candidates = []gather.Candidate{&fakeCandidate{collider: boxCollider(3, 1)}}

			Expect(ctx.Gather(nil, gather.Options{SpatialQuery: true, Volume: volume()})).To(BeEmpty())

			got := ctx.Gather(nil, gather.Options{SpatialQuery: true, IncludeColliders: true, Volume: volume()})
			Expect(handles(got)).To(Equal([]boundary.Handle{3}))
			Expect(got[0].Shape.Kind()).To(Equal(boundary.ShapeCube))
		})

		It("skips trigger colliders", func() {
			trigger := boxCollider(3, 1)
			trigger.trigger = true
			q.candidates = []gather.Candidate{&fakeCandidate{collider: trigger}}

			got := ctx.Gather(nil, gather.Options{SpatialQuery: true, IncludeColliders: true, Volume: volume()})
			Expect(got).To(BeEmpty())
		})

		It("reads at most MaxOverlapCount candidates", func() {
			for i := 0; i < 40; i++ {
				q.candidates = append(q.candidates, &fakeCandidate{
					boundaries: []boundary.Authored{sphereAt(boundary.Handle(100+i), 1)},
				})
			}

			got := ctx.Gather(nil, gather.Options{SpatialQuery: true, Volume: volume()})
			Expect(got).To(HaveLen(gather.MaxOverlapCount))
			Expect(handles(got)).NotTo(ContainElement(boundary.Handle(100 + gather.MaxOverlapCount)))
		})

		It("tolerates a nil querier", func() {
			c := gather.NewContext(nil, nil)
			got := c.Gather([]boundary.Authored{sphereAt(1, 0)}, gather.Options{SpatialQuery: true, Volume: volume()})
			Expect(got).To(HaveLen(1))
		})
	})

	Context("ordering", func() {
		It("falls back to handle then insertion order without proximity sorting", func() {
			in := []boundary.Authored{sphereAt(9, 0), sphereAt(3, 50), sphereAt(7, -20)}

			got := ctx.Gather(in, gather.Options{Volume: volume()})
			Expect(handles(got)).To(Equal([]boundary.Handle{3, 7, 9}))
		})

		It("places nearer boundaries first when sorting by proximity", func() {
			in := []boundary.Authored{sphereAt(1, 3.5), sphereAt(2, 0.25), sphereAt(9, 1)}

			got := ctx.Gather(in, gather.Options{SortByProximity: true, Volume: volume()})
			Expect(handles(got)).To(Equal([]boundary.Handle{2, 9, 1}))
		})

		It("orders by distance bucket, then handle", func() {
			var in []boundary.Authored
			for i := 0; i < 24; i++ {
				x := float64((i*7)%11) * 0.4
				in = append(in, sphereAt(boundary.Handle(1000-i*13), x))
			}
			vol := volume()

			got := ctx.Gather(in, gather.Options{SortByProximity: true, Volume: vol})
			Expect(got).To(HaveLen(len(in)))

			for i := 1; i < len(got); i++ {
				qa := gather.Quantize(boundary.Distance(vol.Center, got[i-1]), vol.MaxExtent())
				qb := gather.Quantize(boundary.Distance(vol.Center, got[i]), vol.MaxExtent())
				Expect(qa).To(BeNumerically("<=", qb))
				if qa == qb {
					Expect(got[i-1].Handle).To(BeNumerically("<", got[i].Handle))
				}
			}
		})

		It("is deterministic across calls", func() {
			q.candidates = []gather.Candidate{
				&fakeCandidate{collider: boxCollider(40, 2)},
				&fakeCandidate{boundaries: []boundary.Authored{sphereAt(12, 0.5)}},
			}
			in := []boundary.Authored{sphereAt(30, 1), sphereAt(4, 3)}
			opts := gather.Options{SortByProximity: true, SpatialQuery: true, IncludeColliders: true, Volume: volume()}

			first := append([]boundary.Entry(nil), ctx.Gather(in, opts)...)
			second := append([]boundary.Entry(nil), ctx.Gather(in, opts)...)
			Expect(second).To(Equal(first))
		})
	})

	It("truncates past MaxEntries in arrival order and keeps the sort intact", func() {
		total := gather.MaxEntries + 4464
		in := make([]boundary.Authored, total)
		for i := range in {
			in[i] = sphereAt(boundary.Handle(i+1), float64(i%97)*0.05)
		}
		vol := volume()

		got := ctx.Gather(in, gather.Options{SortByProximity: true, Volume: vol})
		Expect(got).To(HaveLen(gather.MaxEntries))

		seen := make(map[boundary.Handle]bool, len(got))
		for i, e := range got {
			Expect(e.Handle).To(BeNumerically("<=", gather.MaxEntries))
			Expect(seen[e.Handle]).To(BeFalse())
			seen[e.Handle] = true

			if i == 0 {
				continue
			}
			qa := gather.Quantize(boundary.Distance(vol.Center, got[i-1]), vol.MaxExtent())
			qb := gather.Quantize(boundary.Distance(vol.Center, e), vol.MaxExtent())
			Expect(qa).To(BeNumerically("<=", qb))
			if qa == qb {
				Expect(got[i-1].Handle).To(BeNumerically("<", e.Handle))
			}
		}
	})

	It("reuses its buffers between calls", func() {
		got := ctx.Gather([]boundary.Authored{sphereAt(1, 0), sphereAt(2, 0)}, gather.Options{})
		Expect(got).To(HaveLen(2))

		got = ctx.Gather([]boundary.Authored{sphereAt(3, 0)}, gather.Options{})
		Expect(handles(got)).To(Equal([]boundary.Handle{3}))
	})
})

var _ = Describe("sort keys", func() {
	DescribeTable("Quantize",
		func(sd, extent float64, want uint16) {
			Expect(gather.Quantize(sd, extent)).To(Equal(want))
		},
		Entry("deep inside clips low", -10.0, 1.0, uint16(0)),
		Entry("two extents inside", -2.0, 1.0, uint16(0)),
		Entry("surface maps to the middle", 0.0, 1.0, uint16(math.MaxUint16/2)),
		Entry("two extents outside", 4.0, 2.0, uint16(math.MaxUint16)),
		Entry("far clips high", boundary.FarDistance, 1.0, uint16(math.MaxUint16)),
		Entry("NaN is far", math.NaN(), 1.0, uint16(math.MaxUint16)),
		Entry("zero extent outside", 0.5, 0.0, uint16(math.MaxUint16)),
		Entry("zero extent on surface", 0.0, 0.0, uint16(math.MaxUint16/2)),
	)

	It("packs distance, handle and index", func() {
		key := gather.SortKey(0xabcd, 0x12345678, 0x1_0042)
		Expect(key).To(Equal(uint64(0xabcd_1234_5678_0042)))
		Expect(gather.KeyDistance(key)).To(Equal(uint16(0xabcd)))
		Expect(gather.KeyHandle(key)).To(Equal(boundary.Handle(0x12345678)))
	})

	It("reports the largest absolute extent", func() {
		v := gather.QueryVolume{Extents: mgl64.Vec3{1, -3, 2}}
		Expect(v.MaxExtent()).To(Equal(3.0))
	})
})
