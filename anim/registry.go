package anim

import (
	"fmt"
	"log"
	"strconv"
	"sync"
)

// DefaultAnimateProbability is the chance that a newly registered entity,
// or an entity visited by the reassignment sweep, becomes eligible to
// animate.
const DefaultAnimateProbability = 0.2

// A Registry owns the animation state of every tracked entity and the
// periodic tasks that advance them. It also owns the single background
// reassignment sweep that re-rolls which entities are eligible to animate.
//
// Operations on unknown ids never fail. They are no-ops or return neutral
// defaults, because callers drive the registry from UI and event code
// where stop-then-query races are routine.
type Registry struct {
	HookableBase

	rng Rand

	tickRate  TickRate
	sweepRate TickRate

	maxAngle           float64
	animateProbability float64

	mu      sync.Mutex
	entries map[string]*entry
	sweep   *task
}

// An entry pairs an entity's state with its live periodic task, if any.
// onTick holds the caller's update callback; it is non-nil exactly when
// the caller's last explicit request for this entity was to tick.
type entry struct {
	state  *EntityState
	task   *task
	onTick func()
}

// NewRegistry creates a registry that advances entities at tickRate and
// runs the eligibility reassignment sweep at sweepRate. The random source
// is required; it drives eligibility coin flips and target generation.
func NewRegistry(rng Rand, tickRate, sweepRate TickRate) *Registry {
	if rng == nil {
		log.Panic("registry requires a random source")
	}

	r := &Registry{
		rng:                &lockedRand{src: rng},
		tickRate:           tickRate,
		sweepRate:          sweepRate,
		maxAngle:           DefaultMaxAngle,
		animateProbability: DefaultAnimateProbability,
		entries:            make(map[string]*entry),
	}

	r.mu.Lock()
	r.ensureSweepLocked()
	r.mu.Unlock()

	return r
}

// Register creates the state for an entity if it is not tracked yet.
// Re-registering a known id is a no-op that preserves the existing state.
// Eligibility, speed, smoothing, category, and the initial target are
// assigned randomly.
func (r *Registry) Register(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureSweepLocked()

	if _, ok := r.entries[id]; ok {
		return
	}

	state := NewEntityState(id, r.maxAngle)
	state.randomize(r.rng, r.animateProbability)

	r.entries[id] = &entry{state: state}
}

// StartTicking begins periodic heading updates for the entity, invoking
// onTick after every processed tick. If ticking is already active for the
// id, the existing task is cancelled first, so starting is an idempotent
// restart. If the entity is currently ineligible no task starts; the
// callback is retained and the reassignment sweep may start it later.
// Unknown ids are a no-op.
func (r *Registry) StartTicking(id string, onTick func()) {
	if onTick == nil {
		log.Panic("start ticking requires an update callback")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureSweepLocked()

	e, ok := r.entries[id]
	if !ok {
		return
	}

	e.onTick = onTick

	if e.task != nil {
		e.task.Stop()
		e.task = nil
	}

	if !e.state.AnimateEnabled() {
		return
	}

	e.task = r.startTaskLocked(e)
}

// StopTicking cancels the periodic task for the entity if one is running.
// The entity's state is retained; only ticking is suspended. Idempotent on
// unknown or inactive ids.
func (r *Registry) StopTicking(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}

	if e.task != nil {
		e.task.Stop()
		e.task = nil
	}

	e.onTick = nil
}

// StopAll cancels every periodic task and the reassignment sweep, then
// deletes all entity state. Anything registered before StopAll completes
// is discarded; anything registered after is retained normally.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.task != nil {
			e.task.Stop()
			e.task = nil
		}
	}

	if r.sweep != nil {
		r.sweep.Stop()
		r.sweep = nil
	}

	r.entries = make(map[string]*entry)
}

// PauseAll cancels every periodic task while retaining all entity state
// and stored callbacks.
func (r *Registry) PauseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.task != nil {
			e.task.Stop()
			e.task = nil
		}
	}
}

// ResumeAll restarts periodic tasks for the entities that are currently
// eligible to animate, replacing every entity's stored callback with
// onTick. The set of resumed entities can differ from the set that was
// active before a pause, because the sweep may have flipped eligibility
// in between.
func (r *Registry) ResumeAll(onTick func()) {
	if onTick == nil {
		log.Panic("resume requires an update callback")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureSweepLocked()

	for _, e := range r.entries {
		e.onTick = onTick

		if e.task != nil {
			e.task.Stop()
			e.task = nil
		}

		if e.state.AnimateEnabled() {
			e.task = r.startTaskLocked(e)
		}
	}
}

// Get returns a snapshot of the entity's state. The second return value
// is false for unknown ids.
func (r *Registry) Get(id string) (Snapshot, bool) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()

	if !ok {
		return Snapshot{}, false
	}

	return e.state.Snapshot(), true
}

// CurrentAngle returns the heading the entity currently displays, or 0.0
// for unknown ids.
func (r *Registry) CurrentAngle(id string) float64 {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()

	if !ok {
		return 0.0
	}

	return e.state.CurrentAngle()
}

// AllIDs returns the ids of every tracked entity.
func (r *Registry) AllIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}

	return ids
}

// ActiveIDs returns the ids with a live periodic task.
func (r *Registry) ActiveIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id, e := range r.entries {
		if e.task != nil {
			ids = append(ids, id)
		}
	}

	return ids
}

// AnimatableIDs returns the ids that are currently eligible to animate.
func (r *Registry) AnimatableIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id, e := range r.entries {
		if e.state.AnimateEnabled() {
			ids = append(ids, id)
		}
	}

	return ids
}

// SetTarget switches the entity's target category and generates a fresh
// target heading. No-op on unknown ids.
func (r *Registry) SetTarget(id string, category TargetCategory) {
	if e := r.lookup(id); e != nil {
		e.state.SetTarget(category, r.rng)
	}
}

// SetSpeed applies the animation speed, clamped to its valid range.
// No-op on unknown ids.
func (r *Registry) SetSpeed(id string, speed float64) {
	if e := r.lookup(id); e != nil {
		e.state.SetSpeed(speed)
	}
}

// SetSmoothingFactor applies the smoothing factor, clamped to its valid
// range. No-op on unknown ids.
func (r *Registry) SetSmoothingFactor(id string, factor float64) {
	if e := r.lookup(id); e != nil {
		e.state.SetSmoothingFactor(factor)
	}
}

// SetTargetChangeInterval applies the number of ticks between automatic
// target reselections, clamped to its valid range. No-op on unknown ids.
func (r *Registry) SetTargetChangeInterval(id string, ticks uint64) {
	if e := r.lookup(id); e != nil {
		e.state.SetTargetChangeInterval(ticks)
	}
}

// SetAngle clamps the angle to the heading range and applies it to both
// the current and the target heading. No-op on unknown ids.
func (r *Registry) SetAngle(id string, angle float64) {
	if e := r.lookup(id); e != nil {
		e.state.SetAngle(angle)
	}
}

// EntityState returns the live state record of an entity, or nil for
// unknown ids. It is exposed for diagnostic surfaces; everything else
// should read through Get.
func (r *Registry) EntityState(id string) *EntityState {
	if e := r.lookup(id); e != nil {
		return e.state
	}

	return nil
}

// Stats returns the read-only debug map for an entity. Angles carry two
// decimals and speeds three, for human-readable logging. Unknown ids
// yield an empty map.
func (r *Registry) Stats(id string) map[string]string {
	r.mu.Lock()
	e, ok := r.entries[id]
	active := ok && e.task != nil
	r.mu.Unlock()

	if !ok {
		return map[string]string{}
	}

	snap := e.state.Snapshot()
	ticksUntilChange := int64(snap.TargetChangeInterval) -
		int64(snap.TickCount-snap.LastTargetChangeTick)

	return map[string]string{
		"currentAngle":     fmt.Sprintf("%.2f", snap.CurrentAngle),
		"targetAngle":      fmt.Sprintf("%.2f", snap.TargetAngle),
		"animationSpeed":   fmt.Sprintf("%.3f", snap.AnimationSpeed),
		"smoothingFactor":  fmt.Sprintf("%.3f", snap.SmoothingFactor),
		"isActive":         strconv.FormatBool(snap.AnimateEnabled && active),
		"tickCount":        strconv.FormatUint(snap.TickCount, 10),
		"targetCategory":   snap.TargetCategory.String(),
		"ticksUntilChange": strconv.FormatInt(ticksUntilChange, 10),
	}
}

func (r *Registry) lookup(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.entries[id]
}

// startTaskLocked starts the periodic tick task for an entry. The caller
// must hold r.mu and must have cancelled any previous task.
func (r *Registry) startTaskLocked(e *entry) *task {
	state := e.state
	onTick := e.onTick

	return newTask(r.tickRate.Period(), func() {
		r.tickEntity(state, onTick)
	})
}

// tickEntity processes one tick for one entity. It runs on the entity's
// own task goroutine, not under the registry lock.
func (r *Registry) tickEntity(state *EntityState, onTick func()) {
	if state == nil {
		log.Panic("nil entity state in tick processing")
	}

	before := HookCtx{
		Domain: r,
		Pos:    HookPosBeforeTick,
		Item: TickInfo{
			EntityID:     state.ID(),
			TickCount:    state.TickCount(),
			CurrentAngle: state.CurrentAngle(),
			TargetAngle:  state.TargetAngle(),
		},
	}
	r.InvokeHook(before)

	info := state.advance(r.rng)

	after := HookCtx{
		Domain: r,
		Pos:    HookPosAfterTick,
		Item:   info,
	}
	r.InvokeHook(after)

	if onTick != nil {
		onTick()
	}
}

// ensureSweepLocked starts the reassignment sweep if it is not running.
// The caller must hold r.mu. At most one sweep task exists per registry.
func (r *Registry) ensureSweepLocked() {
	if r.sweep != nil {
		return
	}

	r.sweep = newTask(r.sweepRate.Period(), r.runSweep)
}

// runSweep re-rolls eligibility for every registered entity when at least
// one entity is ineligible. Entities that flip to eligible get fresh
// animation parameters and, when a caller requested ticking for them,
// their periodic task is started. Entities that flip to ineligible have
// their task cancelled, keeping the share of moving markers stable over
// time.
func (r *Registry) runSweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	anyIneligible := false
	for _, e := range r.entries {
		if !e.state.AnimateEnabled() {
			anyIneligible = true
			break
		}
	}
	if !anyIneligible {
		return
	}

	for _, e := range r.entries {
		wasEnabled := e.state.AnimateEnabled()
		enabled := r.rng.Float64() < r.animateProbability

		e.state.setAnimateEnabled(enabled)

		if enabled && !wasEnabled {
			e.state.reroll(r.rng)
		}

		switch {
		case enabled && e.task == nil && e.onTick != nil:
			e.task = r.startTaskLocked(e)
		case !enabled && e.task != nil:
			e.task.Stop()
			e.task = nil
		}
	}
}

// allActiveHaveCallbacks reports whether every entity with a live task
// also holds an update callback. Used by lifecycle state validation.
func (r *Registry) allActiveHaveCallbacks() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.task != nil && e.onTick == nil {
			return false
		}
	}

	return true
}
