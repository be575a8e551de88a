// Periodic callback timer driving writer reconnect loops
package timer

import (
	"sync"
	"time"
)

// Fires a callback every interval once started. Reschedule moves the next
// fire without changing the interval, so Reschedule(0) forces an immediate
// tick. Callbacks run on a timer goroutine, never concurrently with
// themselves.
type Timer struct {
	mutex    sync.Mutex
	interval time.Duration
	callback func()
	pending  *time.Timer
	running  bool
}

func New(interval time.Duration, callback func()) (periodic *Timer) {
	periodic = &Timer{interval: interval, callback: callback}
	return
}

func (periodic *Timer) Start() {
	periodic.mutex.Lock()
	defer periodic.mutex.Unlock()
	if periodic.running {
		return
	}
	periodic.running = true
	periodic.schedule(periodic.interval)
}

func (periodic *Timer) Stop() {
	periodic.mutex.Lock()
	defer periodic.mutex.Unlock()
	periodic.running = false
	if periodic.pending != nil {
		periodic.pending.Stop()
		periodic.pending = nil
	}
}

// Moves the next fire to now+delay. No-op when the timer is stopped.
func (periodic *Timer) Reschedule(delay time.Duration) {
	periodic.mutex.Lock()
	defer periodic.mutex.Unlock()
	if !periodic.running {
		return
	}
	periodic.schedule(delay)
}

// Caller holds the mutex
func (periodic *Timer) schedule(delay time.Duration) {
	if periodic.pending != nil {
		periodic.pending.Stop()
	}
	periodic.pending = time.AfterFunc(delay, periodic.fire)
}

func (periodic *Timer) fire() {
	periodic.callback()

	periodic.mutex.Lock()
	defer periodic.mutex.Unlock()
	if periodic.running {
		periodic.schedule(periodic.interval)
	}
}
