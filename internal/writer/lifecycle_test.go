package writer

import "testing"

func TestLifecycle_HAModeSelection(t *testing.T) {
	var haOn, haOff Lifecycle
	haOn.Init("a", true)
	haOff.Init("b", false)

	if haOn.HAMode() != HAModeRunOnce {
		t.Fatalf("enable_ha must select run-once")
	}
	if haOff.HAMode() != HAModeRunEverywhere {
		t.Fatalf("disabled HA must select run-everywhere")
	}
}

func TestLifecycle_StateMachine(t *testing.T) {
	var base Lifecycle
	base.Init("writer", false)

	if !base.IsPaused() {
		t.Fatalf("freshly loaded writer must gate as paused")
	}
	if base.TransitionPaused() {
		t.Fatalf("loaded writer cannot pause")
	}

	if !base.TransitionRunning() {
		t.Fatalf("loaded writer must resume")
	}
	if base.IsPaused() {
		t.Fatalf("running writer reported paused")
	}
	if base.TransitionRunning() {
		t.Fatalf("running writer resumed twice")
	}

	if !base.TransitionPaused() {
		t.Fatalf("running writer must pause")
	}
	if !base.IsPaused() {
		t.Fatalf("paused writer reported running")
	}

	if !base.TransitionRunning() {
		t.Fatalf("paused writer must resume again")
	}

	base.TransitionStopped()
	if base.TransitionRunning() {
		t.Fatalf("stopped writer came back to life")
	}
	if base.CurrentState() != StateStopped {
		t.Fatalf("want stopped, got %v", base.CurrentState())
	}
}
