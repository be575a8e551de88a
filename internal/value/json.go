package value

import "encoding/json"

// JSON projections, used by the stats endpoint

func (val Value) MarshalJSON() (out []byte, err error) {
	switch val.kind {
	case KindBool:
		out, err = json.Marshal(val.boolean)
	case KindNumber:
		out, err = json.Marshal(val.number)
	case KindString:
		out, err = json.Marshal(val.text)
	case KindObject:
		out, err = json.Marshal(val.object)
	default:
		out = []byte("null")
	}
	return
}

func (array *Array) MarshalJSON() (out []byte, err error) {
	snapshot := array.View()
	if snapshot == nil {
		snapshot = []Value{}
	}
	out, err = json.Marshal(snapshot)
	return
}

func (dict *Dictionary) MarshalJSON() (out []byte, err error) {
	ordered := make(map[string]Value, dict.Length())
	for _, pair := range dict.View() {
		ordered[pair.Key] = pair.Val
	}
	out, err = json.Marshal(ordered)
	return
}
