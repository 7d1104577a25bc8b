package anim

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TickRate", func() {
	It("should get period", func() {
		Expect((10 * Hz).Period()).To(Equal(100 * time.Millisecond))
		Expect((1 * KHz).Period()).To(Equal(time.Millisecond))
		Expect((0.1 * Hz).Period()).To(Equal(10 * time.Second))
	})

	It("should count ticks in a duration", func() {
		Expect((10 * Hz).TicksIn(time.Second)).To(Equal(uint64(10)))
		Expect((10 * Hz).TicksIn(150 * time.Millisecond)).To(
			Equal(uint64(2)))
	})

	It("should convert a period to a rate", func() {
		Expect(RateFromPeriod(100 * time.Millisecond)).To(
			BeNumerically("~", 10*Hz, 1e-9))
	})

	It("should panic on non-positive rates and periods", func() {
		Expect(func() { TickRate(0).Period() }).To(Panic())
		Expect(func() { RateFromPeriod(0) }).To(Panic())
	})
})
