package anim

import "sync"

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosBeforeTick is a hook position that triggers before an entity tick
// is processed.
var HookPosBeforeTick = &HookPos{Name: "BeforeTick"}

// HookPosAfterTick is a hook position that triggers after an entity tick
// is processed.
var HookPosAfterTick = &HookPos{Name: "AfterTick"}

// HookCtx is the context that holds all the information about the site
// that a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// TickInfo describes one processed tick. It is passed to hooks as
// HookCtx.Item.
type TickInfo struct {
	EntityID      string
	TickCount     uint64
	CurrentAngle  float64
	TargetAngle   float64
	TargetChanged bool
}

// Hook is a short piece of program that can be invoked by a hookable
// object. Hooks run on the tick hot path and must be inexpensive.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// A HookableBase provides some utility function for other type that
// implement the Hookable interface. Hooks may be registered while tick
// goroutines are invoking them.
type HookableBase struct {
	mu    sync.RWMutex
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks = append(h.hooks, hook)
}

// InvokeHook triggers the registered Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	h.mu.RLock()
	hooks := h.hooks
	h.mu.RUnlock()

	for _, hook := range hooks {
		hook.Func(ctx)
	}
}
