package animation

import (
	"github.com/geoanim/headings/anim"
	"github.com/geoanim/headings/datarecording"
	"github.com/geoanim/headings/monitoring"
)

// An Animation owns all the moving parts of one heading-animation run.
type Animation struct {
	id string

	registry     *anim.Registry
	coordinator  *anim.Coordinator
	monitor      *monitoring.Monitor
	dataRecorder datarecording.DataRecorder
}

// ID returns the unique id of this animation run.
func (a *Animation) ID() string {
	return a.id
}

// Registry returns the entity registry of the animation.
func (a *Animation) Registry() *anim.Registry {
	return a.registry
}

// Coordinator returns the lifecycle coordinator of the animation.
func (a *Animation) Coordinator() *anim.Coordinator {
	return a.coordinator
}

// Monitor returns the monitor of the animation. It is nil when the
// animation was built without monitoring.
func (a *Animation) Monitor() *monitoring.Monitor {
	return a.monitor
}

// DataRecorder returns the data recorder of the animation. It is nil when
// the animation was built without recording.
func (a *Animation) DataRecorder() datarecording.DataRecorder {
	return a.dataRecorder
}

// Cleanup stops all scheduled work, flushes the recorder, and notifies
// the icon cache collaborator.
func (a *Animation) Cleanup() error {
	if a.dataRecorder != nil {
		defer a.dataRecorder.Flush()
	}

	return a.coordinator.Cleanup()
}
