package value

import (
	"sort"
	"strconv"
	"strings"

	"perfdatad/internal/rcu"
)

// Ordered sequence of dynamic values behind an RCU cell. Every mutation
// publishes a fresh snapshot; readers work on whatever snapshot was current
// when they loaded it.
type Array struct {
	Lockable
	data *rcu.Cell[[]Value]
}

// Shared empty snapshot, keeps default construction allocation-free
var emptyArrayData = &[]Value{}

func cloneArrayData(old []Value) (fresh []Value) {
	fresh = make([]Value, len(old))
	copy(fresh, old)
	return
}

// Array Constructor. With no items the shared empty snapshot is published.
func NewArray(items ...Value) (array *Array) {
	array = &Array{}
	if len(items) == 0 {
		array.data = rcu.NewCell(emptyArrayData, cloneArrayData)
		return
	}

	data := cloneArrayData(items)
	array.data = rcu.NewCell(&data, cloneArrayData)
	return
}

// Returns the current snapshot. Callers must treat it as read-only.
func (array *Array) View() (snapshot []Value) {
	snapshot = *array.data.Read()
	return
}

// Retrieves the value at index
func (array *Array) Get(index int) (val Value, err error) {
	data := array.View()
	if index < 0 || index >= len(data) {
		err = &OutOfBoundsError{Index: index, Length: len(data)}
		return
	}

	val = data[index]
	return
}

// Replaces the value at index
func (array *Array) Set(index int, val Value) (err error) {
	err = array.data.TryCopyUpdate(func(data *[]Value) error {
		if index < 0 || index >= len(*data) {
			return &OutOfBoundsError{Index: index, Length: len(*data)}
		}
		(*data)[index] = val
		return nil
	})
	return
}

// Appends a value
func (array *Array) Add(val Value) {
	array.data.CopyUpdate(func(data *[]Value) {
		*data = append(*data, val)
	})
}

// Inserts the value at index, shifting the tail. index == length appends.
func (array *Array) Insert(index int, val Value) (err error) {
	err = array.data.TryCopyUpdate(func(data *[]Value) error {
		if index < 0 || index > len(*data) {
			return &OutOfBoundsError{Index: index, Length: len(*data)}
		}

		*data = append(*data, Empty)
		copy((*data)[index+1:], (*data)[index:])
		(*data)[index] = val
		return nil
	})
	return
}

// Removes the value at index
func (array *Array) Remove(index int) (err error) {
	err = array.data.TryCopyUpdate(func(data *[]Value) error {
		if index < 0 || index >= len(*data) {
			return &OutOfBoundsError{Index: index, Length: len(*data)}
		}

		*data = append((*data)[:index], (*data)[index+1:]...)
		return nil
	})
	return
}

// Truncates or pads with empty values to the new length
func (array *Array) Resize(newLength int) {
	array.data.CopyUpdate(func(data *[]Value) {
		if newLength <= len(*data) {
			*data = (*data)[:newLength]
			return
		}
		for len(*data) < newLength {
			*data = append(*data, Empty)
		}
	})
}

// Pre-allocates capacity, observable only through allocation behavior
func (array *Array) Reserve(capacity int) {
	array.data.CopyUpdate(func(data *[]Value) {
		if capacity <= cap(*data) {
			return
		}
		grown := make([]Value, len(*data), capacity)
		copy(grown, *data)
		*data = grown
	})
}

// Publishes a fresh empty snapshot. Independent of the previous value, so a
// plain reset suffices over a copy-update.
func (array *Array) Clear() {
	array.data.Reset(&[]Value{})
}

// Linear scan for a value equal to val
func (array *Array) Contains(val Value) (found bool) {
	for _, item := range array.View() {
		if item.Equal(val) {
			found = true
			return
		}
	}
	return
}

func (array *Array) Length() (length int) {
	length = len(array.View())
	return
}

// Returns a new array holding this array's elements in reverse order
func (array *Array) Reverse() (reversed *Array) {
	snapshot := array.View()

	data := make([]Value, 0, len(snapshot))
	for i := len(snapshot) - 1; i >= 0; i-- {
		data = append(data, snapshot[i])
	}

	reversed = NewArray(data...)
	return
}

// Sorts in place (ascending per the value total order)
func (array *Array) Sort() {
	array.data.CopyUpdate(func(data *[]Value) {
		sort.SliceStable(*data, func(i, j int) bool {
			return (*data)[i].Compare((*data)[j]) < 0
		})
	})
}

// Appends all elements of this array onto dest in order
func (array *Array) CopyTo(dest *Array) {
	snapshot := array.View()

	dest.data.CopyUpdate(func(data *[]Value) {
		*data = append(*data, snapshot...)
	})
}

// New array sharing inner object references
func (array *Array) ShallowClone() (clone *Array) {
	clone = NewArray(array.View()...)
	return
}

// New array whose elements are each recursively cloned
func (array *Array) CloneObject() (clone Object) {
	snapshot := array.View()

	data := make([]Value, 0, len(snapshot))
	for _, item := range snapshot {
		data = append(data, item.Clone())
	}

	clone = NewArray(data...)
	return
}

func (array *Array) TypeName() string {
	return "Array"
}

func (array *Array) String() (text string) {
	snapshot := array.View()

	parts := make([]string, 0, len(snapshot))
	for _, item := range snapshot {
		parts = append(parts, item.String())
	}

	text = "[ " + strings.Join(parts, ", ") + " ]"
	return
}

// Script-layer field access. Integer fields index the array, anything else
// falls through to the prototype.
func (array *Array) GetFieldByName(field string, sandboxed bool, debug DebugInfo) (val Value, err error) {
	index, convErr := strconv.Atoi(field)
	if convErr != nil {
		val, err = GetPrototypeField(array, field, sandboxed, debug)
		return
	}

	data := array.View()
	if index < 0 || index >= len(data) {
		err = &ScriptError{
			Message: "Array index '" + strconv.Itoa(index) + "' is out of bounds.",
			Debug:   debug,
		}
		return
	}

	val = data[index]
	return
}

// Script-layer field write. The field must be a nonnegative index; writing
// past the end grows the array, padding with empty values.
func (array *Array) SetFieldByName(field string, val Value, debug DebugInfo) (err error) {
	index, convErr := strconv.Atoi(field)
	if convErr != nil || index < 0 {
		err = &ScriptError{
			Message: "Array index '" + field + "' is out of bounds.",
			Debug:   debug,
		}
		return
	}

	array.data.CopyUpdate(func(data *[]Value) {
		for len(*data) <= index {
			*data = append(*data, Empty)
		}
		(*data)[index] = val
	})
	return
}
