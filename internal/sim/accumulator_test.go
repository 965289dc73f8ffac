package sim_test

import (
	"math"

	"github.com/san-kum/hairsim/internal/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Accumulator", func() {
	var (
		acc  sim.Accumulator
		none sim.StepLimit
	)

	BeforeEach(func() {
		acc = sim.Accumulator{}
	})

	It("runs one step per frame when the frame matches the step", func() {
		for i := 0; i < 120; i++ {
			Expect(acc.Advance(1.0/60, 1.0/60, none, none)).To(Equal(1))
		}
		Expect(acc.AccumulatedTime).To(BeNumerically("~", 0, 1e-12))
		Expect(acc.StepsSkipped).To(BeZero())
	})

	It("conserves time across frames without limits", func() {
		const dt, step = 0.025, 0.01
		total := 0
		for i := 0; i < 200; i++ {
			total += acc.Advance(dt, step, none, none)
			Expect(acc.AccumulatedTime).To(BeNumerically(">=", 0))
			Expect(acc.AccumulatedTime).To(BeNumerically("<", step+1e-9))
		}
		Expect(float64(total)*step + acc.AccumulatedTime).To(BeNumerically("~", 200*dt, 1e-6))
	})

	It("drops the backlog when the max limit suppresses steps", func() {
		limit := sim.StepLimit{Enabled: true, Value: 2}
		steps := acc.Advance(10, 0.0625, none, limit)

		Expect(steps).To(Equal(2))
		Expect(acc.StepsLastFrame).To(Equal(2))
		Expect(acc.StepsSkipped).To(Equal(158))
		Expect(acc.AccumulatedTime).To(BeZero())
	})

	It("lets an enabled max win over an enabled min", func() {
		steps := acc.Advance(0, 0.0625, sim.StepLimit{Enabled: true, Value: 3}, sim.StepLimit{Enabled: true, Value: 2})
		Expect(steps).To(Equal(2))
		Expect(acc.AccumulatedTime).To(BeZero())
		Expect(acc.StepsSkipped).To(BeZero())
	})

	It("forces the minimum step count and drains to zero", func() {
		steps := acc.Advance(0.01, 0.0625, sim.StepLimit{Enabled: true, Value: 1}, none)
		Expect(steps).To(Equal(1))
		Expect(acc.AccumulatedTime).To(BeZero())
	})

	It("ignores disabled limits", func() {
		steps := acc.Advance(0.5, 0.0625, sim.StepLimit{Value: 100}, sim.StepLimit{Value: 1})
		Expect(steps).To(Equal(8))
		Expect(acc.StepsSkipped).To(BeZero())
	})

	It("resets everything on a zero step size", func() {
		acc.Advance(1, 0.0625, none, none)
		Expect(acc.StepsLastFrame).To(Equal(16))

		Expect(acc.Advance(1, 0, none, none)).To(Equal(0))
		Expect(acc).To(Equal(sim.Accumulator{}))
	})

	It("runs nothing while the accumulated time is negative", func() {
		Expect(acc.Advance(-1, 0.0625, none, none)).To(Equal(0))
		Expect(acc.AccumulatedTime).To(BeZero())
	})

	It("treats a NaN frame time as zero and keeps stepping afterwards", func() {
		limit := sim.StepLimit{Enabled: true, Value: 2}

		Expect(acc.Advance(math.NaN(), 0.0625, none, limit)).To(Equal(0))
		Expect(acc.AccumulatedTime).To(BeZero())
		Expect(math.IsNaN(acc.StepsLastFrameSmoothed)).To(BeFalse())

		Expect(acc.Advance(0.0625, 0.0625, none, limit)).To(Equal(1))
		Expect(acc.AccumulatedTime).To(BeZero())
		Expect(acc.StepsLastFrameSmoothed).To(BeNumerically(">", 0))
	})

	It("treats an infinite frame time as zero", func() {
		Expect(acc.Advance(math.Inf(1), 0.0625, none, none)).To(Equal(0))
		Expect(acc.StepsSkipped).To(BeZero())
		Expect(acc.AccumulatedTime).To(BeZero())
	})

	It("recovers from a non-finite restored state", func() {
		acc = sim.Accumulator{AccumulatedTime: math.NaN(), StepsLastFrameSmoothed: math.Inf(-1)}

		Expect(acc.Advance(0.125, 0.0625, none, none)).To(Equal(2))
		Expect(acc.AccumulatedTime).To(BeNumerically("~", 0, 1e-12))
		Expect(acc.StepsLastFrameSmoothed).To(BeNumerically(">", 0))
		Expect(acc.StepsLastFrameSmoothed).To(BeNumerically("<=", 2))
	})

	Describe("smoothing", func() {
		It("moves toward the step count with a 0.2s time constant", func() {
			acc.Advance(0.25, 0.0625, none, none)
			want := 4 * (1 - math.Pow(0.01, 0.25/0.2))
			Expect(acc.StepsLastFrameSmoothed).To(BeNumerically("~", want, 1e-12))
		})

		It("holds its value for a zero-length frame", func() {
			acc.StepsLastFrameSmoothed = 3
			acc.Advance(0, 0.0625, none, none)
			Expect(acc.StepsLastFrameSmoothed).To(Equal(3.0))
		})
	})

	DescribeTable("step counts for a single frame",
		func(dt float64, minSteps, maxSteps sim.StepLimit, wantSteps, wantSkipped int) {
			Expect(acc.Advance(dt, 0.0625, minSteps, maxSteps)).To(Equal(wantSteps))
			Expect(acc.StepsSkipped).To(Equal(wantSkipped))
		},
		Entry("under one step", 0.03, none, none, 0, 0),
		Entry("exactly two steps", 0.125, none, none, 2, 0),
		Entry("clamped to one", 0.25, none, sim.StepLimit{Enabled: true, Value: 1}, 1, 3),
		Entry("raised to two", 0.0, sim.StepLimit{Enabled: true, Value: 2}, none, 2, 0),
		Entry("max zero", 0.25, none, sim.StepLimit{Enabled: true, Value: 0}, 0, 4),
	)
})
