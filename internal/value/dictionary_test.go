package value

import (
	"math/rand"
	"sync"
	"testing"
)

func assertSorted(t *testing.T, dict *Dictionary) {
	t.Helper()
	data := dict.View()
	for i := 1; i < len(data); i++ {
		if data[i-1].Key >= data[i].Key {
			t.Fatalf("sort invariant broken at %d: %q >= %q", i, data[i-1].Key, data[i].Key)
		}
	}
}

func TestDictionary_ConstructionSortsAndDedups(t *testing.T) {
	dict := NewDictionary(
		Pair{Key: "z", Val: NewNumber(1)},
		Pair{Key: "a", Val: NewNumber(2)},
		Pair{Key: "m", Val: NewNumber(3)},
		Pair{Key: "a", Val: NewNumber(4)},
	)

	assertSorted(t, dict)

	wantKeys := []string{"a", "m", "z"}
	gotKeys := dict.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("want keys %v, got %v", wantKeys, gotKeys)
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Fatalf("want keys %v, got %v", wantKeys, gotKeys)
		}
	}

	// First occurrence wins
	if got := dict.Get("a"); got.AsNumber() != 2 {
		t.Fatalf("duplicate key: want first value 2, got %v", got.AsNumber())
	}
}

func TestDictionary_GetSetRemove(t *testing.T) {
	dict := NewDictionary()

	if got := dict.Get("missing"); !got.IsEmpty() {
		t.Fatalf("missing key should yield empty, got %v", got)
	}
	if _, found := dict.GetCheck("missing"); found {
		t.Fatalf("missing key reported found")
	}

	dict.Set("b", NewNumber(2))
	dict.Set("a", NewNumber(1))
	dict.Set("c", NewNumber(3))
	assertSorted(t, dict)

	dict.Set("b", NewNumber(20)) // replace in place
	if dict.Length() != 3 {
		t.Fatalf("replace should not grow, length %d", dict.Length())
	}
	if got := dict.Get("b"); got.AsNumber() != 20 {
		t.Fatalf("replace: want 20, got %v", got.AsNumber())
	}

	dict.Remove("a")
	dict.Remove("nope") // no-op
	assertSorted(t, dict)
	if dict.Contains("a") || !dict.Contains("b") {
		t.Fatalf("remove broke containment")
	}

	dict.Clear()
	if dict.Length() != 0 {
		t.Fatalf("length after clear: %d", dict.Length())
	}
}

func TestDictionary_SortInvariantUnderRandomOps(t *testing.T) {
	dict := NewDictionary()
	rng := rand.New(rand.NewSource(1))

	alphabet := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i := 0; i < 500; i++ {
		key := alphabet[rng.Intn(len(alphabet))] + alphabet[rng.Intn(len(alphabet))]
		if rng.Intn(3) == 0 {
			dict.Remove(key)
		} else {
			dict.Set(key, NewNumber(float64(i)))
		}
		assertSorted(t, dict)
	}
}

func TestDictionary_CopyToAndClones(t *testing.T) {
	inner := NewArray(NewNumber(1))
	dict := NewDictionary(
		Pair{Key: "nested", Val: NewObject(inner)},
		Pair{Key: "plain", Val: NewString("v")},
	)

	dest := NewDictionary(Pair{Key: "existing", Val: NewNumber(0)})
	dict.CopyTo(dest)
	if dest.Length() != 3 {
		t.Fatalf("copy-to: want 3 entries, got %d", dest.Length())
	}
	assertSorted(t, dest)

	shallow := dict.ShallowClone()
	shallow.Get("nested").AsObject().(*Array).Add(NewNumber(2))
	if inner.Length() != 2 {
		t.Fatalf("shallow clone should share inner objects")
	}

	deep := dict.CloneObject().(*Dictionary)
	deep.Get("nested").AsObject().(*Array).Add(NewNumber(3))
	if inner.Length() != 2 {
		t.Fatalf("deep clone should not share inner objects, length %d", inner.Length())
	}
}

func TestDictionary_FieldAccess(t *testing.T) {
	debug := DebugInfo{}
	dict := NewDictionary(Pair{Key: "state", Val: NewNumber(2)})

	val, err := dict.GetFieldByName("state", false, debug)
	if err != nil || val.AsNumber() != 2 {
		t.Fatalf("own field: got %v (err %v)", val, err)
	}

	RegisterPrototype("Dictionary", NewDictionary(Pair{Key: "len", Val: NewString("builtin")}))
	val, err = dict.GetFieldByName("len", false, debug)
	if err != nil || val.AsString() != "builtin" {
		t.Fatalf("prototype fallback: got %v (err %v)", val, err)
	}

	// Own-field accessors never consult the prototype
	if dict.HasOwnField("len") {
		t.Fatalf("has-own-field should ignore prototype members")
	}
	if _, found := dict.GetOwnField("len"); found {
		t.Fatalf("get-own-field should ignore prototype members")
	}
	if !dict.HasOwnField("state") {
		t.Fatalf("has-own-field missed a real entry")
	}

	if err = dict.SetFieldByName("new", NewNumber(1), debug); err != nil {
		t.Fatalf("set field: %v", err)
	}
	if !dict.Contains("new") {
		t.Fatalf("set field did not store entry")
	}
}

func TestDictionary_ConcurrentSetsStaySorted(t *testing.T) {
	const writers = 6
	const perWriter = 100

	dict := NewDictionary()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(seed)))
			for i := 0; i < perWriter; i++ {
				key := string(rune('a' + rng.Intn(26)))
				dict.Set(key+string(rune('a'+rng.Intn(26))), NewNumber(float64(i)))
			}
		}(w)
	}
	wg.Wait()

	assertSorted(t, dict)
}
