package anim

import (
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Angle math", func() {
	It("should compute the shortest rotational delta", func() {
		Expect(AngleDifference(350, 10)).To(BeNumerically("~", 20, 1e-9))
		Expect(AngleDifference(10, 350)).To(BeNumerically("~", -20, 1e-9))
		Expect(AngleDifference(0, 180)).To(BeNumerically("~", 180, 1e-9))
		Expect(AngleDifference(90, 90)).To(BeNumerically("~", 0, 1e-9))
		Expect(AngleDifference(-170, 170)).To(BeNumerically("~", -20, 1e-9))
	})

	It("should keep the delta in (-180, 180] and antisymmetric", func() {
		rng := NewRand(1)
		for i := 0; i < 1000; i++ {
			a := rng.Float64()*2000 - 1000
			b := rng.Float64()*2000 - 1000

			d := AngleDifference(a, b)
			Expect(d).To(BeNumerically(">", -180))
			Expect(d).To(BeNumerically("<=", 180))

			if d < 180 { // the sign convention flips at the boundary
				Expect(AngleDifference(b, a)).To(
					BeNumerically("~", -d, 1e-9))
			}
		}
	})

	It("should smooth by a fraction of the remaining distance", func() {
		Expect(SmoothedAngle(0, 90, 0.5)).To(BeNumerically("~", 45, 1e-9))
		Expect(SmoothedAngle(0, 90, 1.0)).To(BeNumerically("~", 90, 1e-9))
		Expect(SmoothedAngle(0, 90, 0.0)).To(BeNumerically("~", 0, 1e-9))
	})

	It("should not move when already on target", func() {
		for _, factor := range []float64{0, 0.25, 1, 2} {
			Expect(SmoothedAngle(42, 42, factor)).To(
				BeNumerically("~", 42, 1e-9))
		}
	})

	It("should overshoot with factors above one", func() {
		Expect(SmoothedAngle(0, 90, 1.5)).To(BeNumerically("~", 135, 1e-9))
	})

	It("should normalize angles into [0, 360)", func() {
		Expect(NormalizeAngle(0)).To(BeNumerically("~", 0, 1e-9))
		Expect(NormalizeAngle(360)).To(BeNumerically("~", 0, 1e-9))
		Expect(NormalizeAngle(-90)).To(BeNumerically("~", 270, 1e-9))
		Expect(NormalizeAngle(725)).To(BeNumerically("~", 5, 1e-9))
		Expect(NormalizeAngle(-1e9 + 0.5)).To(And(
			BeNumerically(">=", 0),
			BeNumerically("<", 360)))
	})

	It("should normalize idempotently", func() {
		rng := NewRand(2)
		for i := 0; i < 1000; i++ {
			angle := rng.Float64()*2e6 - 1e6
			once := NormalizeAngle(angle)

			Expect(once).To(BeNumerically(">=", 0))
			Expect(once).To(BeNumerically("<", 360))
			Expect(NormalizeAngle(once)).To(BeNumerically("~", once, 1e-9))
		}
	})

	It("should compare headings with a tolerance", func() {
		Expect(AnglesEqual(0, 0.5, DefaultAngleTolerance)).To(BeTrue())
		Expect(AnglesEqual(359.5, 0.2, DefaultAngleTolerance)).To(BeTrue())
		Expect(AnglesEqual(0, 2, DefaultAngleTolerance)).To(BeFalse())
	})
})

var _ = Describe("Target generation", func() {
	var (
		mockCtrl *gomock.Controller
		rng      *MockRand
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		rng = NewMockRand(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stay within the heading range for every category", func() {
		seeded := NewRand(3)
		categories := []TargetCategory{
			TargetMaximum, TargetMinimum, TargetCenter, TargetRandom,
		}

		for i := 0; i < 1000; i++ {
			for _, category := range categories {
				target := GenerateTarget(category, DefaultMaxAngle, seeded)
				Expect(target).To(BeNumerically(">=", -DefaultMaxAngle))
				Expect(target).To(BeNumerically("<=", DefaultMaxAngle))
			}
		}
	})

	It("should clamp a positive maximum target with jitter", func() {
		rng.EXPECT().Float64().Return(0.9) // sign stays positive
		rng.EXPECT().Float64().Return(1.0) // +5 degree jitter

		Expect(GenerateTarget(TargetMaximum, 180, rng)).To(
			BeNumerically("~", 180, 1e-9))
	})

	It("should clamp a negative maximum target with jitter", func() {
		rng.EXPECT().Float64().Return(0.1) // flip sign
		rng.EXPECT().Float64().Return(0.0) // -5 degree jitter

		Expect(GenerateTarget(TargetMaximum, 180, rng)).To(
			BeNumerically("~", -180, 1e-9))
	})

	It("should generate minimum targets at ten percent of the range", func() {
		rng.EXPECT().Float64().Return(0.9) // sign stays positive
		rng.EXPECT().Float64().Return(0.5) // no jitter

		Expect(GenerateTarget(TargetMinimum, 180, rng)).To(
			BeNumerically("~", 18, 1e-9))
	})

	It("should generate center targets around zero", func() {
		rng.EXPECT().Float64().Return(0.5) // no jitter

		Expect(GenerateTarget(TargetCenter, 180, rng)).To(
			BeNumerically("~", 0, 1e-9))
	})

	It("should generate random targets within seventy percent of the range",
		func() {
			rng.EXPECT().Float64().Return(0.5) // base
			rng.EXPECT().Float64().Return(0.9) // sign stays positive
			rng.EXPECT().Float64().Return(0.5) // no jitter

			Expect(GenerateTarget(TargetRandom, 180, rng)).To(
				BeNumerically("~", 63, 1e-9))
		})

	It("should panic without a random source", func() {
		Expect(func() {
			GenerateTarget(TargetCenter, 180, nil)
		}).To(Panic())
	})
})
