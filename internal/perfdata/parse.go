// Parsing and formatting of check plugin performance data
package perfdata

import (
	"strconv"
	"strings"

	dyn "perfdatad/internal/value"
)

// Unit factors normalizing plugin output to base units (seconds, bytes)
var unitFactors = map[string]float64{
	"us": 1e-6,
	"ms": 1e-3,
	"s":  1,
	"b":  1,
	"kb": 1024,
	"mb": 1024 * 1024,
	"gb": 1024 * 1024 * 1024,
	"tb": 1024 * 1024 * 1024 * 1024,
}

// Parses one plugin-format performance data element:
//
//	label=value[unit][;warn[;crit[;min[;max]]]]
//
// Labels may be single-quoted to carry spaces. Values and thresholds are
// normalized to base units (ms becomes seconds, kb becomes bytes).
func Parse(raw string) (pdv *Value, err error) {
	trimmed := strings.TrimSpace(raw)

	var label, rest string
	if strings.HasPrefix(trimmed, "'") {
		closing := strings.Index(trimmed[1:], "'")
		if closing < 0 {
			err = &ParseError{Raw: raw, Reason: "unterminated quoted label"}
			return
		}
		label = trimmed[1 : closing+1]
		rest = trimmed[closing+2:]
		if !strings.HasPrefix(rest, "=") {
			err = &ParseError{Raw: raw, Reason: "missing '=' after label"}
			return
		}
		rest = rest[1:]
	} else {
		equals := strings.Index(trimmed, "=")
		if equals < 0 {
			err = &ParseError{Raw: raw, Reason: "missing '='"}
			return
		}
		label = trimmed[:equals]
		rest = trimmed[equals+1:]
	}

	if label == "" {
		err = &ParseError{Raw: raw, Reason: "empty label"}
		return
	}

	tokens := strings.Split(rest, ";")

	number, unit, splitErr := splitValueUnit(tokens[0])
	if splitErr != nil {
		err = &ParseError{Raw: raw, Reason: splitErr.Error()}
		return
	}

	counter := false
	factor := 1.0
	normalizedUnit := strings.ToLower(unit)
	switch normalizedUnit {
	case "", "%":
		// percent and unitless pass through
	case "c":
		counter = true
		normalizedUnit = ""
	default:
		knownFactor, known := unitFactors[normalizedUnit]
		if !known {
			err = &ParseError{Raw: raw, Reason: "unknown unit '" + unit + "'"}
			return
		}
		factor = knownFactor
		switch normalizedUnit {
		case "us", "ms":
			normalizedUnit = "s"
		case "kb", "mb", "gb", "tb":
			normalizedUnit = "b"
		}
	}

	pdv = &Value{
		Label:   label,
		Val:     number * factor,
		Counter: counter,
		Unit:    normalizedUnit,
	}

	thresholds := []*dyn.Value{&pdv.Warn, &pdv.Crit, &pdv.Min, &pdv.Max}
	for i, slot := range thresholds {
		tokenIndex := i + 1
		if tokenIndex >= len(tokens) {
			break
		}
		token := strings.TrimSpace(tokens[tokenIndex])
		if token == "" {
			continue
		}

		parsed, convErr := strconv.ParseFloat(token, 64)
		if convErr != nil {
			pdv = nil
			err = &ParseError{Raw: raw, Reason: "invalid threshold '" + token + "'"}
			return
		}
		*slot = dyn.NewNumber(parsed * factor)
	}
	return
}

// Splits "0.5ms" into number and unit suffix
func splitValueUnit(token string) (number float64, unit string, err error) {
	token = strings.TrimSpace(token)

	isDigit := func(ch byte) bool { return ch >= '0' && ch <= '9' }

	end := 0
	for end < len(token) {
		ch := token[end]
		if isDigit(ch) || ch == '.' || ch == '-' || ch == '+' {
			end++
			continue
		}
		// Exponent notation, only mid-number
		if (ch == 'e' || ch == 'E') && end > 0 && end+1 < len(token) &&
			(isDigit(token[end+1]) || token[end+1] == '-' || token[end+1] == '+') {
			end += 2
			continue
		}
		break
	}

	unit = token[end:]
	number, err = strconv.ParseFloat(token[:end], 64)
	return
}

// Parses the element unless it already is a typed perfdata value
func FromValue(val dyn.Value) (pdv *Value, err error) {
	if typed, ok := val.AsObject().(*Value); ok {
		pdv = typed
		return
	}

	pdv, err = Parse(val.String())
	return
}
