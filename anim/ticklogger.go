package anim

import "log"

// A LogHook is a hook that is responsible for recording information from
// the animation as it runs.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks.
type LogHookBase struct {
	*log.Logger
}

// TickLogger is a hook that prints every processed tick.
type TickLogger struct {
	LogHookBase
}

// NewTickLogger returns a TickLogger which will write into the logger.
func NewTickLogger(logger *log.Logger) *TickLogger {
	h := new(TickLogger)
	h.Logger = logger

	return h
}

// Func writes the tick information into the logger.
func (h *TickLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterTick {
		return
	}

	info, ok := ctx.Item.(TickInfo)
	if !ok {
		return
	}

	if info.TargetChanged {
		h.Printf("%s tick %d, %.2f -> %.2f (new target)",
			info.EntityID, info.TickCount,
			info.CurrentAngle, info.TargetAngle)
		return
	}

	h.Printf("%s tick %d, %.2f -> %.2f",
		info.EntityID, info.TickCount, info.CurrentAngle, info.TargetAngle)
}
