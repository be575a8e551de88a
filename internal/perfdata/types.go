package perfdata

import dyn "perfdatad/internal/value"

// A single performance datum from a check plugin: labeled value with
// optional thresholds and bounds. Threshold fields are empty dynamic values
// when the plugin did not supply them.
type Value struct {
	Label   string
	Val     float64
	Counter bool
	Unit    string
	Warn    dyn.Value
	Crit    dyn.Value
	Min     dyn.Value
	Max     dyn.Value
}

// Raw plugin output that could not be parsed as perfdata
type ParseError struct {
	Raw    string
	Reason string
}

func (err *ParseError) Error() string {
	return "invalid perfdata value '" + err.Raw + "': " + err.Reason
}
