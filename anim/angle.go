package anim

import (
	"log"
	"math"
)

// DefaultMaxAngle bounds the heading range markers are allowed to display.
const DefaultMaxAngle = 180.0

// DefaultAngleTolerance is the tolerance used when comparing two headings
// for equality.
const DefaultAngleTolerance = 1.0

// targetJitter is the magnitude of the random noise added to every
// generated target heading, in degrees.
const targetJitter = 5.0

// A TargetCategory selects how new target headings are generated for an
// entity.
type TargetCategory int

// The supported target categories.
const (
	TargetMaximum TargetCategory = iota
	TargetMinimum
	TargetCenter
	TargetRandom
	numTargetCategories
)

func (c TargetCategory) String() string {
	switch c {
	case TargetMaximum:
		return "Maximum"
	case TargetMinimum:
		return "Minimum"
	case TargetCenter:
		return "Center"
	case TargetRandom:
		return "Random"
	}

	return "Unknown"
}

// AngleDifference returns the signed shortest rotational delta from current
// to target, in (-180, 180]. Going from 350 to 10 yields +20, not -340.
func AngleDifference(current, target float64) float64 {
	if math.IsNaN(current) || math.IsNaN(target) {
		log.Panic("invalid angle")
	}

	diff := math.Mod(target-current, 360)
	if diff > 180 {
		diff -= 360
	}
	if diff <= -180 {
		diff += 360
	}

	return diff
}

// SmoothedAngle moves current toward target by the given fraction of the
// remaining shortest-path distance. A factor of 0 leaves the angle in place
// and a factor of 1 snaps to the target exactly. Factors above 1 overshoot
// on purpose; clamping to the heading range is the caller's job.
func SmoothedAngle(current, target, factor float64) float64 {
	return current + AngleDifference(current, target)*factor
}

// NormalizeAngle maps any finite angle into [0, 360).
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		log.Panic("invalid angle")
	}

	normalized := math.Mod(angle, 360)
	if normalized < 0 {
		normalized += 360
	}

	return normalized
}

// AnglesEqual reports whether the shortest-path distance between two
// headings is within the tolerance.
func AnglesEqual(a, b, tolerance float64) bool {
	return math.Abs(AngleDifference(a, b)) <= tolerance
}

// GenerateTarget produces a new target heading for the category. Every
// category receives an extra jitter of up to ±5 degrees, and the result is
// clamped to [-maxAngle, maxAngle].
func GenerateTarget(category TargetCategory, maxAngle float64, rng Rand) float64 {
	if rng == nil {
		log.Panic("target generation requires a random source")
	}

	var base float64
	switch category {
	case TargetMaximum:
		base = maxAngle
	case TargetMinimum:
		base = maxAngle * 0.1
	case TargetCenter:
		base = 0
	case TargetRandom:
		base = rng.Float64() * maxAngle * 0.7
	default:
		log.Panicf("unknown target category %d", category)
	}

	if category != TargetCenter && rng.Float64() < 0.5 {
		base = -base
	}

	jitter := (rng.Float64()*2 - 1) * targetJitter

	return ClampAngle(base+jitter, maxAngle)
}

// ClampAngle limits an angle to [-maxAngle, maxAngle].
func ClampAngle(angle, maxAngle float64) float64 {
	if angle > maxAngle {
		return maxAngle
	}
	if angle < -maxAngle {
		return -maxAngle
	}

	return angle
}
