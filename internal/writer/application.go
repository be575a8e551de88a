package writer

import (
	"perfdatad/internal/global"
	"perfdatad/internal/macros"
	dyn "perfdatad/internal/value"
)

// Resolver for $icinga.*$ macros in name templates, backed by process-wide
// application facts
func ApplicationResolver() (resolver macros.Resolver) {
	resolver = macros.Resolver{
		Name: "icinga",
		Object: dyn.NewDictionary(
			dyn.Pair{Key: "name", Val: dyn.NewString(global.ProgBaseName)},
			dyn.Pair{Key: "node_name", Val: dyn.NewString(global.Hostname)},
			dyn.Pair{Key: "version", Val: dyn.NewString(global.ProgVersion)},
		),
	}
	return
}
