package checkable

import dyn "perfdatad/internal/value"

// Dynamic object views used by name template macros. Configuration
// attributes are exposed read-only; writer templates never mutate them.

func (host *Host) TypeName() string { return "Host" }
func (host *Host) String() string   { return host.Name() }

func (host *Host) CloneObject() dyn.Object {
	cloned := *host
	return &cloned
}

func (host *Host) GetFieldByName(field string, sandboxed bool, debug dyn.DebugInfo) (val dyn.Value, err error) {
	switch field {
	case "name", "__name":
		val = dyn.NewString(host.HostName)
	case "address":
		val = dyn.NewString(host.Address)
	case "check_command":
		val = dyn.NewString(host.CheckCommand)
	case "state":
		val = dyn.NewNumber(float64(host.CurrentState))
	case "vars":
		if host.Vars != nil {
			val = dyn.NewObject(host.Vars)
		}
	default:
		val, err = dyn.GetPrototypeField(host, field, sandboxed, debug)
	}
	return
}

func (host *Host) SetFieldByName(field string, val dyn.Value, debug dyn.DebugInfo) error {
	return &dyn.ScriptError{
		Message: "Attempt to modify read-only attribute '" + field + "' (for value of type 'Host')",
		Debug:   debug,
	}
}

func (service *Service) TypeName() string { return "Service" }
func (service *Service) String() string   { return service.Name() }

func (service *Service) CloneObject() dyn.Object {
	cloned := *service
	return &cloned
}

func (service *Service) GetFieldByName(field string, sandboxed bool, debug dyn.DebugInfo) (val dyn.Value, err error) {
	switch field {
	case "name":
		val = dyn.NewString(service.ServiceName)
	case "__name":
		val = dyn.NewString(service.Name())
	case "check_command":
		val = dyn.NewString(service.CheckCommand)
	case "state":
		val = dyn.NewNumber(float64(service.CurrentState))
	case "host_name":
		if service.HostRef != nil {
			val = dyn.NewString(service.HostRef.HostName)
		}
	case "vars":
		if service.Vars != nil {
			val = dyn.NewObject(service.Vars)
		}
	default:
		val, err = dyn.GetPrototypeField(service, field, sandboxed, debug)
	}
	return
}

func (service *Service) SetFieldByName(field string, val dyn.Value, debug dyn.DebugInfo) error {
	return &dyn.ScriptError{
		Message: "Attempt to modify read-only attribute '" + field + "' (for value of type 'Service')",
		Debug:   debug,
	}
}
