package perfdata

import (
	"strconv"
	"strings"

	dyn "perfdatad/internal/value"
)

// *Value participates in the dynamic value layer so check results can carry
// typed perfdata alongside raw plugin strings.

func (pdv *Value) TypeName() string {
	return "PerfdataValue"
}

// Formats back to plugin syntax, quoting labels that carry spaces. Trailing
// empty threshold slots are dropped.
func (pdv *Value) String() (formatted string) {
	var builder strings.Builder

	if strings.ContainsAny(pdv.Label, " =';\"") {
		builder.WriteByte('\'')
		builder.WriteString(pdv.Label)
		builder.WriteByte('\'')
	} else {
		builder.WriteString(pdv.Label)
	}

	builder.WriteByte('=')
	builder.WriteString(strconv.FormatFloat(pdv.Val, 'f', -1, 64))
	if pdv.Counter {
		builder.WriteByte('c')
	} else {
		builder.WriteString(pdv.Unit)
	}

	thresholds := []dyn.Value{pdv.Warn, pdv.Crit, pdv.Min, pdv.Max}
	last := len(thresholds) - 1
	for last >= 0 && thresholds[last].IsEmpty() {
		last--
	}
	for _, threshold := range thresholds[:last+1] {
		builder.WriteByte(';')
		if !threshold.IsEmpty() {
			builder.WriteString(threshold.String())
		}
	}

	formatted = builder.String()
	return
}

func (pdv *Value) CloneObject() dyn.Object {
	cloned := *pdv
	return &cloned
}

func (pdv *Value) GetFieldByName(field string, sandboxed bool, debug dyn.DebugInfo) (val dyn.Value, err error) {
	switch field {
	case "label":
		val = dyn.NewString(pdv.Label)
	case "value":
		val = dyn.NewNumber(pdv.Val)
	case "counter":
		val = dyn.NewBool(pdv.Counter)
	case "unit":
		val = dyn.NewString(pdv.Unit)
	case "warn":
		val = pdv.Warn
	case "crit":
		val = pdv.Crit
	case "min":
		val = pdv.Min
	case "max":
		val = pdv.Max
	default:
		val, err = dyn.GetPrototypeField(pdv, field, sandboxed, debug)
	}
	return
}

func (pdv *Value) SetFieldByName(field string, val dyn.Value, debug dyn.DebugInfo) (err error) {
	switch field {
	case "label":
		pdv.Label = val.AsString()
	case "value":
		pdv.Val = val.AsNumber()
	case "counter":
		pdv.Counter = val.AsBool()
	case "unit":
		pdv.Unit = val.AsString()
	case "warn":
		pdv.Warn = val
	case "crit":
		pdv.Crit = val
	case "min":
		pdv.Min = val
	case "max":
		pdv.Max = val
	default:
		err = &dyn.ScriptError{
			Message: "Invalid field access (for value of type 'PerfdataValue'): '" + field + "'",
			Debug:   debug,
		}
	}
	return
}
