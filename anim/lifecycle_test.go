package anim

import (
	"time"

	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Coordinator", func() {
	var (
		mockCtrl    *gomock.Controller
		iconCache   *MockIconCache
		registry    *Registry
		coordinator *Coordinator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		iconCache = NewMockIconCache(mockCtrl)
		registry = NewRegistry(NewRand(1), testTickRate, testSweepRate)
		coordinator = NewCoordinator(registry)
	})

	AfterEach(func() {
		registry.StopAll()
		mockCtrl.Finish()
	})

	startEligible := func(id string) {
		registry.Register(id)
		registry.EntityState(id).setAnimateEnabled(true)
		registry.StartTicking(id, func() {})
	}

	It("should pause all ticking", func() {
		startEligible("d1")

		coordinator.PauseAll()

		Expect(coordinator.Paused()).To(BeTrue())
		Expect(registry.ActiveIDs()).To(BeEmpty())
		Expect(registry.AllIDs()).To(Equal([]string{"d1"}))
	})

	It("should treat repeated pauses as no-ops", func() {
		coordinator.PauseAll()
		coordinator.PauseAll()

		Expect(coordinator.Paused()).To(BeTrue())
	})

	It("should resume eligible entities with the new callback", func() {
		startEligible("d1")
		coordinator.PauseAll()

		coordinator.ResumeAll(func() {})

		Expect(coordinator.Paused()).To(BeFalse())
		Expect(registry.ActiveIDs()).To(Equal([]string{"d1"}))
	})

	It("should ignore resume while active", func() {
		startEligible("d1")

		coordinator.ResumeAll(func() {})

		Expect(registry.ActiveIDs()).To(Equal([]string{"d1"}))
	})

	It("should recover through force-resume with the stored callback",
		func() {
			startEligible("d1")
			coordinator.PauseAll()
			coordinator.ResumeAll(func() {})

			coordinator.PauseAll()
			coordinator.ForceResume()

			Expect(coordinator.Paused()).To(BeFalse())
			Expect(registry.ActiveIDs()).To(Equal([]string{"d1"}))
		})

	It("should not force-resume without a stored callback", func() {
		coordinator.PauseAll()

		coordinator.ForceResume()

		Expect(coordinator.Paused()).To(BeTrue())
	})

	It("should clear the icon cache on cleanup", func() {
		coordinator.AttachIconCache(iconCache)
		startEligible("d1")

		iconCache.EXPECT().ClearCache()

		Expect(coordinator.Cleanup()).To(Succeed())
		Expect(registry.AllIDs()).To(BeEmpty())
		Expect(registry.ActiveIDs()).To(BeEmpty())
		Expect(coordinator.Paused()).To(BeFalse())
	})

	It("should report a missing icon cache on cleanup", func() {
		startEligible("d1")

		Expect(coordinator.Cleanup()).To(
			MatchError(ErrIconCacheNotConfigured))

		// the registry is reset even when the collaborator is missing
		Expect(registry.AllIDs()).To(BeEmpty())
	})

	It("should be cleanable from the paused state", func() {
		coordinator.AttachIconCache(iconCache)
		startEligible("d1")
		coordinator.PauseAll()

		iconCache.EXPECT().ClearCache()

		Expect(coordinator.Cleanup()).To(Succeed())
		Expect(coordinator.Paused()).To(BeFalse())
	})

	It("should panic when resuming without a callback", func() {
		coordinator.PauseAll()
		Expect(func() { coordinator.ResumeAll(nil) }).To(Panic())
	})

	It("should panic without a registry", func() {
		Expect(func() { NewCoordinator(nil) }).To(Panic())
	})

	Describe("state validation", func() {
		It("should accept a quiescent coordinator", func() {
			Expect(coordinator.ValidateState()).To(BeTrue())
		})

		It("should accept active ticking with callbacks", func() {
			startEligible("d1")
			Expect(coordinator.ValidateState()).To(BeTrue())
		})

		It("should reject ticking that bypassed a pause", func() {
			registry.Register("d1")
			registry.EntityState("d1").setAnimateEnabled(true)

			coordinator.PauseAll()
			registry.StartTicking("d1", func() {})

			Expect(coordinator.ValidateState()).To(BeFalse())
		})

		It("should hold while ticking is in flight", func() {
			startEligible("d1")

			Consistently(func() bool {
				return coordinator.ValidateState()
			}).WithTimeout(200 * time.Millisecond).Should(BeTrue())
		})
	})
})
