package anim

import (
	"errors"
	"log"
	"sync"
)

// ErrIconCacheNotConfigured is returned by Cleanup when no icon cache
// collaborator has been attached, so the caller can tell a misconfigured
// boundary apart from a normal cleanup.
var ErrIconCacheNotConfigured = errors.New(
	"anim: icon cache not configured")

// IconCache is the external collaborator that caches marker bitmaps. The
// coordinator only ever asks it to release its resources.
type IconCache interface {
	ClearCache()
}

// A Coordinator orchestrates the lifecycle of all scheduled animation work.
// It moves between two states, Active and Paused, and can be cleaned up
// from either, which returns the whole system to its pre-registration
// condition.
type Coordinator struct {
	mu sync.Mutex

	registry  *Registry
	iconCache IconCache

	paused bool
	onTick func()
}

// NewCoordinator creates a coordinator over the given registry.
func NewCoordinator(registry *Registry) *Coordinator {
	if registry == nil {
		log.Panic("coordinator requires a registry")
	}

	return &Coordinator{registry: registry}
}

// AttachIconCache configures the icon cache collaborator that Cleanup
// notifies.
func (c *Coordinator) AttachIconCache(cache IconCache) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.iconCache = cache
}

// PauseAll suspends all ticking while retaining every entity's state.
// No-op when already paused.
func (c *Coordinator) PauseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return
	}

	c.registry.PauseAll()
	c.paused = true
}

// ResumeAll restarts ticking for the currently eligible entities with the
// given update callback. The callback is stored so that a later
// ForceResume can recover without one. No-op when already active.
func (c *Coordinator) ResumeAll(onTick func()) {
	if onTick == nil {
		log.Panic("resume requires an update callback")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}

	c.onTick = onTick
	c.registry.ResumeAll(onTick)
	c.paused = false
}

// ForceResume resumes with the callback stored by the last ResumeAll.
// No-op when active or when no callback has ever been stored.
func (c *Coordinator) ForceResume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused || c.onTick == nil {
		return
	}

	c.registry.ResumeAll(c.onTick)
	c.paused = false
}

// Paused reports whether the coordinator is in the Paused state.
func (c *Coordinator) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.paused
}

// Cleanup stops all scheduled work, discards all entity state, and asks
// the icon cache collaborator to release its resources. Callable from any
// state; afterwards the coordinator is equivalent to a freshly created
// one. Returns ErrIconCacheNotConfigured when no collaborator is attached;
// the registry is reset regardless.
func (c *Coordinator) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.StopAll()
	c.paused = false
	c.onTick = nil

	if c.iconCache == nil {
		return ErrIconCacheNotConfigured
	}

	c.iconCache.ClearCache()

	return nil
}

// ValidateState checks lifecycle consistency: Paused implies zero actively
// ticking entities, and every actively ticking entity implies a stored
// update callback. Returns false instead of failing; the check is for
// diagnostics only.
func (c *Coordinator) ValidateState() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.registry.ActiveIDs()

	if c.paused && len(active) > 0 {
		return false
	}

	if len(active) > 0 && !c.registry.allActiveHaveCallbacks() {
		return false
	}

	return true
}
