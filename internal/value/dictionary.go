package value

import (
	"sort"
	"strings"

	"perfdatad/internal/rcu"
)

// One key/value entry of a dictionary snapshot
type Pair struct {
	Key string
	Val Value
}

// Keyed mapping of dynamic values behind an RCU cell. Snapshots keep their
// pairs sorted ascending by key with unique keys; every operation preserves
// that invariant so lookups stay logarithmic.
type Dictionary struct {
	Lockable
	data *rcu.Cell[[]Pair]
}

// Shared empty snapshot, keeps default construction allocation-free
var emptyDictionaryData = &[]Pair{}

func cloneDictionaryData(old []Pair) (fresh []Pair) {
	fresh = make([]Pair, len(old))
	copy(fresh, old)
	return
}

// Dictionary Constructor. Input pairs may arrive unsorted and may repeat
// keys; they are stable-sorted and deduplicated keeping the first occurrence.
func NewDictionary(pairs ...Pair) (dict *Dictionary) {
	dict = &Dictionary{}
	if len(pairs) == 0 {
		dict.data = rcu.NewCell(emptyDictionaryData, cloneDictionaryData)
		return
	}

	data := cloneDictionaryData(pairs)
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Key < data[j].Key
	})

	// First occurrence wins
	deduped := data[:1]
	for _, pair := range data[1:] {
		if pair.Key != deduped[len(deduped)-1].Key {
			deduped = append(deduped, pair)
		}
	}

	dict.data = rcu.NewCell(&deduped, cloneDictionaryData)
	return
}

// Returns the current snapshot. Callers must treat it as read-only.
func (dict *Dictionary) View() (snapshot []Pair) {
	snapshot = *dict.data.Read()
	return
}

// Position of the first pair with key >= target
func lowerBound(data []Pair, key string) (position int) {
	position = sort.Search(len(data), func(i int) bool {
		return data[i].Key >= key
	})
	return
}

// Retrieves the value for key, or the empty value when absent
func (dict *Dictionary) Get(key string) (val Value) {
	val, _ = dict.GetCheck(key)
	return
}

// Retrieves the value for key with an explicit found flag
func (dict *Dictionary) GetCheck(key string) (val Value, found bool) {
	data := dict.View()

	position := lowerBound(data, key)
	if position < len(data) && data[position].Key == key {
		val = data[position].Val
		found = true
	}
	return
}

// Sets the value for key, replacing in place or inserting in key order
func (dict *Dictionary) Set(key string, val Value) {
	dict.data.CopyUpdate(func(data *[]Pair) {
		position := lowerBound(*data, key)

		if position < len(*data) && (*data)[position].Key == key {
			(*data)[position].Val = val
			return
		}

		*data = append(*data, Pair{})
		copy((*data)[position+1:], (*data)[position:])
		(*data)[position] = Pair{Key: key, Val: val}
	})
}

func (dict *Dictionary) Contains(key string) (found bool) {
	data := dict.View()
	position := lowerBound(data, key)
	found = position < len(data) && data[position].Key == key
	return
}

// Removes key if present, no-op otherwise
func (dict *Dictionary) Remove(key string) {
	dict.data.CopyUpdate(func(data *[]Pair) {
		position := lowerBound(*data, key)
		if position < len(*data) && (*data)[position].Key == key {
			*data = append((*data)[:position], (*data)[position+1:]...)
		}
	})
}

// Publishes a fresh empty snapshot
func (dict *Dictionary) Clear() {
	dict.data.Reset(&[]Pair{})
}

func (dict *Dictionary) Length() (length int) {
	length = len(dict.View())
	return
}

// All keys in ascending order
func (dict *Dictionary) Keys() (keys []string) {
	data := dict.View()

	keys = make([]string, 0, len(data))
	for _, pair := range data {
		keys = append(keys, pair.Key)
	}
	return
}

// Sets every pair of this dictionary on dest
func (dict *Dictionary) CopyTo(dest *Dictionary) {
	for _, pair := range dict.View() {
		dest.Set(pair.Key, pair.Val)
	}
}

// New dictionary sharing inner object references
func (dict *Dictionary) ShallowClone() (clone *Dictionary) {
	clone = NewDictionary(dict.View()...)
	return
}

// New dictionary whose values are each recursively cloned
func (dict *Dictionary) CloneObject() (clone Object) {
	snapshot := dict.View()

	pairs := make([]Pair, 0, len(snapshot))
	for _, pair := range snapshot {
		pairs = append(pairs, Pair{Key: pair.Key, Val: pair.Val.Clone()})
	}

	clone = NewDictionary(pairs...)
	return
}

func (dict *Dictionary) TypeName() string {
	return "Dictionary"
}

func (dict *Dictionary) String() (text string) {
	snapshot := dict.View()

	parts := make([]string, 0, len(snapshot))
	for _, pair := range snapshot {
		parts = append(parts, pair.Key+" = "+pair.Val.String())
	}

	text = "{ " + strings.Join(parts, ", ") + " }"
	return
}

// Script-layer field access: own entry first, prototype second
func (dict *Dictionary) GetFieldByName(field string, sandboxed bool, debug DebugInfo) (val Value, err error) {
	val, found := dict.GetCheck(field)
	if found {
		return
	}

	val, err = GetPrototypeField(dict, field, sandboxed, debug)
	return
}

// Script-layer field write maps directly onto Set
func (dict *Dictionary) SetFieldByName(field string, val Value, debug DebugInfo) (err error) {
	dict.Set(field, val)
	return
}

// Direct containment check, no prototype fallback
func (dict *Dictionary) HasOwnField(field string) (found bool) {
	found = dict.Contains(field)
	return
}

// Direct lookup, no prototype fallback
func (dict *Dictionary) GetOwnField(field string) (val Value, found bool) {
	val, found = dict.GetCheck(field)
	return
}
