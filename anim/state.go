package anim

import (
	"log"
	"sync"
)

// Bounds of the numeric fields of EntityState. Out-of-range input is
// clamped, never rejected.
const (
	MinAnimationSpeed = 0.05
	MaxAnimationSpeed = 0.8

	MinSmoothingFactor = 0.01
	MaxSmoothingFactor = 1.0

	MinTargetChangeInterval = 20
	MaxTargetChangeInterval = 300
)

// An EntityState is the animation record of one tracked marker. All
// mutations go through its methods, which serialize against the registry's
// tick handler.
type EntityState struct {
	sync.Mutex

	id       string
	maxAngle float64

	currentAngle float64
	targetAngle  float64

	animationSpeed  float64
	smoothingFactor float64
	targetCategory  TargetCategory
	animateEnabled  bool

	tickCount            uint64
	lastTargetChangeTick uint64
	targetChangeInterval uint64
}

// A Snapshot is a point-in-time copy of an EntityState. Readers get
// snapshots so that queries never block on in-flight ticks.
type Snapshot struct {
	ID                   string
	CurrentAngle         float64
	TargetAngle          float64
	AnimationSpeed       float64
	SmoothingFactor      float64
	TargetCategory       TargetCategory
	AnimateEnabled       bool
	TickCount            uint64
	LastTargetChangeTick uint64
	TargetChangeInterval uint64
}

// NewEntityState creates the state record for one entity. The maxAngle
// bounds both the current and the target heading.
func NewEntityState(id string, maxAngle float64) *EntityState {
	if maxAngle <= 0 {
		maxAngle = DefaultMaxAngle
	}

	return &EntityState{
		id:                   id,
		maxAngle:             maxAngle,
		animationSpeed:       MinAnimationSpeed,
		smoothingFactor:      MinSmoothingFactor,
		targetCategory:       TargetCenter,
		targetChangeInterval: MinTargetChangeInterval,
	}
}

// ID returns the immutable identifier of the entity.
func (s *EntityState) ID() string {
	return s.id
}

// Snapshot returns a copy of the current state.
func (s *EntityState) Snapshot() Snapshot {
	s.Lock()
	defer s.Unlock()

	return Snapshot{
		ID:                   s.id,
		CurrentAngle:         s.currentAngle,
		TargetAngle:          s.targetAngle,
		AnimationSpeed:       s.animationSpeed,
		SmoothingFactor:      s.smoothingFactor,
		TargetCategory:       s.targetCategory,
		AnimateEnabled:       s.animateEnabled,
		TickCount:            s.tickCount,
		LastTargetChangeTick: s.lastTargetChangeTick,
		TargetChangeInterval: s.targetChangeInterval,
	}
}

// CurrentAngle returns the heading the marker currently displays.
func (s *EntityState) CurrentAngle() float64 {
	s.Lock()
	defer s.Unlock()

	return s.currentAngle
}

// TargetAngle returns the heading the marker is smoothing toward.
func (s *EntityState) TargetAngle() float64 {
	s.Lock()
	defer s.Unlock()

	return s.targetAngle
}

// AnimateEnabled reports whether the entity is currently eligible for
// scheduled ticking.
func (s *EntityState) AnimateEnabled() bool {
	s.Lock()
	defer s.Unlock()

	return s.animateEnabled
}

// TickCount returns the number of ticks processed since creation.
func (s *EntityState) TickCount() uint64 {
	s.Lock()
	defer s.Unlock()

	return s.tickCount
}

// SetAngle clamps the angle to the heading range and applies it to both
// the current and the target heading, so the marker holds still until the
// next target change.
func (s *EntityState) SetAngle(angle float64) {
	s.Lock()
	defer s.Unlock()

	clamped := ClampAngle(angle, s.maxAngle)
	s.currentAngle = clamped
	s.targetAngle = clamped
}

// SetSpeed applies the animation speed, clamped to its valid range.
func (s *EntityState) SetSpeed(speed float64) {
	s.Lock()
	defer s.Unlock()

	s.animationSpeed = clampFloat(speed, MinAnimationSpeed, MaxAnimationSpeed)
}

// SetSmoothingFactor applies the smoothing factor, clamped to its valid
// range.
func (s *EntityState) SetSmoothingFactor(factor float64) {
	s.Lock()
	defer s.Unlock()

	s.smoothingFactor = clampFloat(factor,
		MinSmoothingFactor, MaxSmoothingFactor)
}

// SetTargetChangeInterval applies the number of ticks between automatic
// target reselections, clamped to its valid range.
func (s *EntityState) SetTargetChangeInterval(ticks uint64) {
	s.Lock()
	defer s.Unlock()

	s.targetChangeInterval = clampUint(ticks,
		MinTargetChangeInterval, MaxTargetChangeInterval)
}

// SetTarget switches the target category and generates a fresh target
// heading for it.
func (s *EntityState) SetTarget(category TargetCategory, rng Rand) {
	s.Lock()
	defer s.Unlock()

	s.targetCategory = category
	s.targetAngle = GenerateTarget(category, s.maxAngle, rng)
	s.lastTargetChangeTick = s.tickCount
}

// ShouldChangeTarget reports whether enough ticks have elapsed since the
// last target change for a new target to be selected.
func (s *EntityState) ShouldChangeTarget() bool {
	s.Lock()
	defer s.Unlock()

	return s.tickCount-s.lastTargetChangeTick >= s.targetChangeInterval
}

// MarkTargetChanged records that the target was reselected at the current
// tick.
func (s *EntityState) MarkTargetChanged() {
	s.Lock()
	defer s.Unlock()

	s.lastTargetChangeTick = s.tickCount
}

func (s *EntityState) setAnimateEnabled(enabled bool) {
	s.Lock()
	defer s.Unlock()

	s.animateEnabled = enabled
}

// randomize assigns the probabilistic eligibility flag and fresh animation
// parameters. Used at registration and when the reassignment sweep flips
// an entity to eligible.
func (s *EntityState) randomize(rng Rand, animateProbability float64) {
	s.Lock()
	defer s.Unlock()

	s.animateEnabled = rng.Float64() < animateProbability
	s.rerollLocked(rng)
}

// reroll reinitializes speed, smoothing, category, interval, and target
// without touching the eligibility flag.
func (s *EntityState) reroll(rng Rand) {
	s.Lock()
	defer s.Unlock()

	s.rerollLocked(rng)
}

func (s *EntityState) rerollLocked(rng Rand) {
	s.animationSpeed = MinAnimationSpeed +
		rng.Float64()*(MaxAnimationSpeed-MinAnimationSpeed)
	s.smoothingFactor = clampFloat(0.05+rng.Float64()*0.3,
		MinSmoothingFactor, MaxSmoothingFactor)
	s.targetCategory = TargetCategory(rng.Intn(int(numTargetCategories)))
	s.targetChangeInterval = MinTargetChangeInterval + uint64(
		rng.Intn(MaxTargetChangeInterval-MinTargetChangeInterval+1))
	s.targetAngle = GenerateTarget(s.targetCategory, s.maxAngle, rng)
	s.lastTargetChangeTick = s.tickCount
}

// advance processes one tick: it counts the tick, reselects the target
// when the change interval has elapsed, and smooths the current heading
// toward the target.
func (s *EntityState) advance(rng Rand) TickInfo {
	if s == nil {
		log.Panic("nil entity state in tick processing")
	}

	s.Lock()
	defer s.Unlock()

	s.tickCount++

	changed := false
	if s.tickCount-s.lastTargetChangeTick >= s.targetChangeInterval {
		s.targetAngle = GenerateTarget(s.targetCategory, s.maxAngle, rng)
		s.lastTargetChangeTick = s.tickCount
		changed = true
	}

	s.currentAngle = ClampAngle(
		SmoothedAngle(s.currentAngle, s.targetAngle, s.smoothingFactor),
		s.maxAngle)

	return TickInfo{
		EntityID:      s.id,
		TickCount:     s.tickCount,
		CurrentAngle:  s.currentAngle,
		TargetAngle:   s.targetAngle,
		TargetChanged: changed,
	}
}

func clampFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}

	return v
}

func clampUint(v, low, high uint64) uint64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}

	return v
}
