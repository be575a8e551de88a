// Monitored host and service objects as the writers observe them
package checkable

import (
	"sync/atomic"

	dyn "perfdatad/internal/value"
)

// Process-wide perfdata switch. Writers drop check results while disabled.
var perfdataEnabled atomic.Bool

func init() {
	perfdataEnabled.Store(true)
}

func SetEnablePerfdata(enabled bool) {
	perfdataEnabled.Store(enabled)
}

func PerfdataEnabled() (enabled bool) {
	enabled = perfdataEnabled.Load()
	return
}

// A host or service under active checking. Also a dynamic object so name
// templates can walk its fields.
type Checkable interface {
	dyn.Object

	Name() string
	State() int
	StateType() StateType
	CheckAttempt() int
	MaxCheckAttempts() int
	IsReachable() bool
	DowntimeDepth() int
	Acknowledgement() int
	EnablePerfdata() bool
}

// State shared by hosts and services. Mutated only under the owning
// scheduler, read freely by writer handlers.
type Attributes struct {
	CurrentState    int
	CurrentType     StateType
	Attempt         int
	MaxAttempts     int
	Reachable       bool
	Downtimes       int
	Acked           int
	PerfdataEnabled bool
}

type Host struct {
	Attributes

	HostName     string
	Address      string
	CheckCommand string
	Vars         *dyn.Dictionary
}

func (host *Host) Name() string          { return host.HostName }
func (host *Host) State() int            { return host.CurrentState }
func (host *Host) StateType() StateType  { return host.CurrentType }
func (host *Host) CheckAttempt() int     { return host.Attempt }
func (host *Host) MaxCheckAttempts() int { return host.MaxAttempts }
func (host *Host) IsReachable() bool     { return host.Reachable }
func (host *Host) DowntimeDepth() int    { return host.Downtimes }
func (host *Host) Acknowledgement() int  { return host.Acked }
func (host *Host) EnablePerfdata() bool  { return host.PerfdataEnabled }

var _ Checkable = (*Host)(nil)
var _ Checkable = (*Service)(nil)

type Service struct {
	Attributes

	ServiceName  string
	CheckCommand string
	Vars         *dyn.Dictionary
	HostRef      *Host
}

// Full object name, host!service
func (service *Service) Name() (name string) {
	name = service.ServiceName
	if service.HostRef != nil {
		name = service.HostRef.HostName + "!" + service.ServiceName
	}
	return
}

func (service *Service) ShortName() string     { return service.ServiceName }
func (service *Service) Host() *Host           { return service.HostRef }
func (service *Service) State() int            { return service.CurrentState }
func (service *Service) StateType() StateType  { return service.CurrentType }
func (service *Service) CheckAttempt() int     { return service.Attempt }
func (service *Service) MaxCheckAttempts() int { return service.MaxAttempts }
func (service *Service) IsReachable() bool     { return service.Reachable }
func (service *Service) DowntimeDepth() int    { return service.Downtimes }
func (service *Service) Acknowledgement() int  { return service.Acked }
func (service *Service) EnablePerfdata() bool  { return service.PerfdataEnabled }

// Splits a checkable into its host and, for services, the service itself
func GetHostService(subject Checkable) (host *Host, service *Service) {
	switch typed := subject.(type) {
	case *Host:
		host = typed
	case *Service:
		service = typed
		host = typed.HostRef
	}
	return
}
