package datarecording

import "github.com/geoanim/headings/anim"

// tickTableName is the table that holds one row per processed tick.
const tickTableName = "ticks"

// A TickSample is one recorded heading update.
type TickSample struct {
	EntityID      string
	Tick          int64
	CurrentAngle  float64
	TargetAngle   float64
	TargetChanged bool
}

// TickRecorder is a hook that records every processed tick as a row in
// the data recorder.
type TickRecorder struct {
	recorder DataRecorder
}

// NewTickRecorder creates a TickRecorder writing into the given recorder
// and creates the tick table.
func NewTickRecorder(recorder DataRecorder) *TickRecorder {
	recorder.CreateTable(tickTableName, TickSample{})

	return &TickRecorder{recorder: recorder}
}

// Func records the tick carried by after-tick hook invocations.
func (r *TickRecorder) Func(ctx anim.HookCtx) {
	if ctx.Pos != anim.HookPosAfterTick {
		return
	}

	info, ok := ctx.Item.(anim.TickInfo)
	if !ok {
		return
	}

	r.recorder.InsertData(tickTableName, TickSample{
		EntityID:      info.EntityID,
		Tick:          int64(info.TickCount),
		CurrentAngle:  info.CurrentAngle,
		TargetAngle:   info.TargetAngle,
		TargetChanged: info.TargetChanged,
	})
}
