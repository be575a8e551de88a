package value

// Rank of each tag in the total order: empty < bool < number < string < object
func kindRank(kind Kind) (rank int) {
	switch kind {
	case KindEmpty:
		rank = 0
	case KindBool:
		rank = 1
	case KindNumber:
		rank = 2
	case KindString:
		rank = 3
	case KindObject:
		rank = 4
	}
	return
}

// Total order over values: by tag rank first, then by content. Used by
// Array.Sort. Distinct objects with identical display forms compare equal,
// which is sufficient for a sort order.
func (val Value) Compare(other Value) (order int) {
	rankA := kindRank(val.kind)
	rankB := kindRank(other.kind)
	if rankA != rankB {
		if rankA < rankB {
			order = -1
		} else {
			order = 1
		}
		return
	}

	switch val.kind {
	case KindBool:
		if !val.boolean && other.boolean {
			order = -1
		} else if val.boolean && !other.boolean {
			order = 1
		}
	case KindNumber:
		if val.number < other.number {
			order = -1
		} else if val.number > other.number {
			order = 1
		}
	case KindString:
		if val.text < other.text {
			order = -1
		} else if val.text > other.text {
			order = 1
		}
	case KindObject:
		textA := val.object.String()
		textB := other.object.String()
		if textA < textB {
			order = -1
		} else if textA > textB {
			order = 1
		}
	}
	return
}
