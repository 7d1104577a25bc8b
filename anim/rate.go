package anim

import (
	"log"
	"math"
	"time"
)

// TickRate defines the type of tick frequencies.
type TickRate float64

// Defines the unit of tick rates.
const (
	Hz  TickRate = 1
	KHz TickRate = 1e3
)

// DefaultTickRate is the rate at which entity headings are advanced.
const DefaultTickRate = 10 * Hz

// DefaultSweepRate is the rate of the background eligibility
// reassignment sweep.
const DefaultSweepRate = 0.1 * Hz

// Period returns the wall-clock time between two consecutive ticks.
func (r TickRate) Period() time.Duration {
	if r <= 0 {
		log.Panic("tick rate must be positive")
	}

	return time.Duration(float64(time.Second) / float64(r))
}

// TicksIn converts a duration to the number of whole ticks that fit in it.
func (r TickRate) TicksIn(d time.Duration) uint64 {
	return uint64(math.Round(d.Seconds() * float64(r)))
}

// RateFromPeriod converts a tick period to a TickRate.
func RateFromPeriod(period time.Duration) TickRate {
	if period <= 0 {
		log.Panic("tick period must be positive")
	}

	return TickRate(float64(time.Second) / float64(period))
}
