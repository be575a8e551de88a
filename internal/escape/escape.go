// Character escaping for metric names, labels and tags on the backend wires
package escape

import (
	"strings"

	"perfdatad/internal/value"
)

// Graphite metric path components, '.' is the path separator
func Metric(input string) (escaped string) {
	escaped = strings.NewReplacer(
		" ", "_",
		".", "_",
		`\`, "_",
		"/", "_",
	).Replace(input)
	return
}

// Graphite perfdata labels keep '.' but map the plugin namespace
// separator "::" onto it
func MetricLabel(input string) (escaped string) {
	escaped = strings.NewReplacer(
		" ", "_",
		`\`, "_",
		"/", "_",
	).Replace(input)
	escaped = strings.ReplaceAll(escaped, "::", ".")
	return
}

// OpenTSDB tag values
func Tag(input string) (escaped string) {
	escaped = strings.NewReplacer(
		" ", "_",
		`\`, "_",
	).Replace(input)
	return
}

// OpenTSDB metric names, ':' would collide with the telnet syntax
func TsdbMetric(input string) (escaped string) {
	escaped = strings.NewReplacer(
		" ", "_",
		".", "_",
		`\`, "_",
		":", "_",
	).Replace(input)
	return
}

// Escaper handed to the macro processor for name templates. Array values are
// escaped element-wise and joined into a metric path.
func MacroMetric(input value.Value) (escaped value.Value) {
	if array, ok := input.AsObject().(*value.Array); ok {
		parts := make([]string, 0, array.Length())
		for _, item := range array.View() {
			parts = append(parts, Metric(item.String()))
		}
		escaped = value.NewString(strings.Join(parts, "."))
		return
	}

	escaped = value.NewString(Metric(input.String()))
	return
}
