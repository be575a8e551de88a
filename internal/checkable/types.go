package checkable

import (
	"time"

	dyn "perfdatad/internal/value"
)

// Hard states drive notifications, soft states are retries in progress
type StateType uint8

const (
	StateTypeSoft StateType = iota
	StateTypeHard
)

// Acknowledgement levels, numeric on the wire
const (
	AcknowledgementNone = iota
	AcknowledgementNormal
	AcknowledgementSticky
)

// Host states
const (
	HostUp = iota
	HostDown
)

// Service states
const (
	ServiceOK = iota
	ServiceWarning
	ServiceCritical
	ServiceUnknown
)

// Outcome of one check execution. PerformanceData holds plugin-format
// strings or typed perfdata values, mixed freely.
type CheckResult struct {
	ScheduleStart   time.Time
	ScheduleEnd     time.Time
	ExecutionStart  time.Time
	ExecutionEnd    time.Time
	State           int
	Output          string
	Command         string
	PerformanceData *dyn.Array
}

func (cr *CheckResult) CalculateExecutionTime() (seconds float64) {
	seconds = cr.ExecutionEnd.Sub(cr.ExecutionStart).Seconds()
	return
}

// Scheduling delay beyond the execution itself, never negative
func (cr *CheckResult) CalculateLatency() (seconds float64) {
	seconds = cr.ScheduleEnd.Sub(cr.ScheduleStart).Seconds() - cr.CalculateExecutionTime()
	if seconds < 0 {
		seconds = 0
	}
	return
}
