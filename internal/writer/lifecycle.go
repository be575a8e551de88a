// Shared lifecycle machinery for the perfdata writers
package writer

import (
	"sync"
)

// Who runs a writer when multiple daemon instances share a zone
type HAMode uint8

const (
	// One instance active at a time, the HA controller selects it
	HAModeRunOnce HAMode = iota
	// Every instance runs the writer
	HAModeRunEverywhere
)

// Writer states. Writers are born Loaded and gate all external-facing work
// until the first Resume.
type State uint8

const (
	StateLoaded State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (state State) String() (name string) {
	switch state {
	case StateLoaded:
		name = "Loaded"
	case StateRunning:
		name = "Running"
	case StatePaused:
		name = "Paused"
	case StateStopped:
		name = "Stopped"
	default:
		name = "Unknown"
	}
	return
}

// Embedded by each writer. Holds the name, the HA mode decided at config
// load, and the pause-gating state machine.
type Lifecycle struct {
	name string

	mutex  sync.Mutex
	haMode HAMode
	state  State
}

func (base *Lifecycle) Init(name string, enableHA bool) {
	base.name = name
	base.state = StateLoaded
	if enableHA {
		base.haMode = HAModeRunOnce
	} else {
		base.haMode = HAModeRunEverywhere
	}
}

func (base *Lifecycle) Name() (name string) {
	name = base.name
	return
}

func (base *Lifecycle) HAMode() (mode HAMode) {
	base.mutex.Lock()
	mode = base.haMode
	base.mutex.Unlock()
	return
}

func (base *Lifecycle) CurrentState() (state State) {
	base.mutex.Lock()
	state = base.state
	base.mutex.Unlock()
	return
}

// Everything outside Running counts as paused, including freshly loaded
func (base *Lifecycle) IsPaused() (paused bool) {
	base.mutex.Lock()
	paused = base.state != StateRunning
	base.mutex.Unlock()
	return
}

// Loaded or Paused may resume. Running and Stopped stay put.
func (base *Lifecycle) TransitionRunning() (ok bool) {
	base.mutex.Lock()
	defer base.mutex.Unlock()
	if base.state == StateLoaded || base.state == StatePaused {
		base.state = StateRunning
		ok = true
	}
	return
}

func (base *Lifecycle) TransitionPaused() (ok bool) {
	base.mutex.Lock()
	defer base.mutex.Unlock()
	if base.state == StateRunning {
		base.state = StatePaused
		ok = true
	}
	return
}

// Terminal, taken from any state
func (base *Lifecycle) TransitionStopped() {
	base.mutex.Lock()
	base.state = StateStopped
	base.mutex.Unlock()
}
