package anim

import (
	"sync"
	"time"
)

// A task is one unit of periodic work. Stopping a task is immediate and
// non-blocking: after Stop returns no further invocation fires, though an
// invocation already dispatched may still complete once.
type task struct {
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newTask(period time.Duration, fn func()) *task {
	t := &task{
		ticker: time.NewTicker(period),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go t.loop(fn)

	return t
}

func (t *task) loop(fn func()) {
	defer close(t.done)

	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			// A tick and a stop can be ready at the same time. The stop
			// wins, so at most the already-dispatched invocation runs.
			select {
			case <-t.stop:
				return
			default:
			}

			fn()
		}
	}
}

// Stop cancels the task. Idempotent.
func (t *task) Stop() {
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}
