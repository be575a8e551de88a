package value

// Tag discriminating the kinds a dynamic value can carry
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
)

// Tagged dynamic value. The zero Value is the empty value.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	text    string
	object  Object
}

// Shared empty value for default construction and absent lookups
var Empty = Value{}

// Capability for entities addressable by field name from the script layer
type Object interface {
	GetFieldByName(field string, sandboxed bool, debug DebugInfo) (Value, error)
	SetFieldByName(field string, val Value, debug DebugInfo) error
	CloneObject() Object
	TypeName() string
	String() string
}

// Source location attached to script-level errors by the caller
type DebugInfo struct {
	Path        string
	FirstLine   int
	FirstColumn int
	LastLine    int
	LastColumn  int
}

// Index operation outside the snapshot bounds
type OutOfBoundsError struct {
	Index  int
	Length int
}

func (err *OutOfBoundsError) Error() string {
	return "index " + itoa(err.Index) + " out of bounds for length " + itoa(err.Length)
}

// Field access rejected by the script layer, carries caller debug info
type ScriptError struct {
	Message string
	Debug   DebugInfo
}

func (err *ScriptError) Error() string {
	return err.Message
}
