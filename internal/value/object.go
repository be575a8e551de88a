package value

import "sync"

// Per-type prototype tables. The script layer registers prototype members
// (length, contains, ...) keyed by type name; field lookups that miss the
// instance fall back here.
var prototypes = struct {
	mutex  sync.RWMutex
	byType map[string]*Dictionary
}{
	byType: make(map[string]*Dictionary),
}

// Installs (or replaces) the prototype dictionary for a type
func RegisterPrototype(typeName string, proto *Dictionary) {
	prototypes.mutex.Lock()
	defer prototypes.mutex.Unlock()
	prototypes.byType[typeName] = proto
}

// Resolves a field against the prototype of the object's type.
// Unknown types and unknown fields fail with a script error.
func GetPrototypeField(object Object, field string, sandboxed bool, debug DebugInfo) (val Value, err error) {
	prototypes.mutex.RLock()
	proto := prototypes.byType[object.TypeName()]
	prototypes.mutex.RUnlock()

	if proto != nil {
		var found bool
		val, found = proto.GetCheck(field)
		if found {
			return
		}
	}

	err = &ScriptError{
		Message: "Invalid field access (for value of type '" + object.TypeName() + "'): '" + field + "'",
		Debug:   debug,
	}
	return
}
