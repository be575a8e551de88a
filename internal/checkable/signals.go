package checkable

import "perfdatad/internal/events"

// A fresh check result paired with its subject
type CheckEvent struct {
	Subject Checkable
	Result  *CheckResult
}

// Fired for every processed check result, host and service alike
var OnNewCheckResult events.Signal[CheckEvent]

// Fired for service results only
var OnNewServiceCheckResult events.Signal[CheckEvent]

// Publishes a processed check result to the connected writers
func PublishCheckResult(subject Checkable, cr *CheckResult) {
	event := CheckEvent{Subject: subject, Result: cr}
	OnNewCheckResult.Emit(event)
	if _, service := GetHostService(subject); service != nil {
		OnNewServiceCheckResult.Emit(event)
	}
}
