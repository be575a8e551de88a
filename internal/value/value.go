// Dynamic values and containers shared between the writer pipeline and the
// script layer. Containers publish immutable snapshots through RCU cells so
// readers never block writers and writers never block readers.
package value

import "strconv"

// Value constructors, one per tag

func NewBool(v bool) Value {
	return Value{kind: KindBool, boolean: v}
}

func NewNumber(v float64) Value {
	return Value{kind: KindNumber, number: v}
}

func NewString(v string) Value {
	return Value{kind: KindString, text: v}
}

func NewObject(v Object) Value {
	if v == nil {
		return Empty
	}
	return Value{kind: KindObject, object: v}
}

func (val Value) Kind() Kind {
	return val.kind
}

func (val Value) IsEmpty() bool {
	return val.kind == KindEmpty
}

// Typed accessors return the zero of their type when the tag does not match

func (val Value) AsBool() (v bool) {
	if val.kind == KindBool {
		v = val.boolean
	}
	return
}

func (val Value) AsNumber() (v float64) {
	if val.kind == KindNumber {
		v = val.number
	}
	return
}

func (val Value) AsString() (v string) {
	if val.kind == KindString {
		v = val.text
	}
	return
}

func (val Value) AsObject() (v Object) {
	if val.kind == KindObject {
		v = val.object
	}
	return
}

// Display form. Numbers use the shortest decimal representation.
func (val Value) String() (text string) {
	switch val.kind {
	case KindBool:
		text = strconv.FormatBool(val.boolean)
	case KindNumber:
		text = strconv.FormatFloat(val.number, 'f', -1, 64)
	case KindString:
		text = val.text
	case KindObject:
		text = val.object.String()
	}
	return
}

// Script-layer truthiness: empty and zero-like scalars are false, object
// references are always true.
func (val Value) Truthy() (truthy bool) {
	switch val.kind {
	case KindBool:
		truthy = val.boolean
	case KindNumber:
		truthy = val.number != 0
	case KindString:
		truthy = val.text != ""
	case KindObject:
		truthy = true
	}
	return
}

// Strict equality: same tag, same content. Objects compare by identity.
func (val Value) Equal(other Value) (equal bool) {
	if val.kind != other.kind {
		return
	}

	switch val.kind {
	case KindEmpty:
		equal = true
	case KindBool:
		equal = val.boolean == other.boolean
	case KindNumber:
		equal = val.number == other.number
	case KindString:
		equal = val.text == other.text
	case KindObject:
		equal = val.object == other.object
	}
	return
}

// Deep clone. Scalar tags are value copies, object references are cloned
// recursively so the result shares nothing with the original.
func (val Value) Clone() (cloned Value) {
	if val.kind == KindObject {
		cloned = NewObject(val.object.CloneObject())
		return
	}
	cloned = val
	return
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
