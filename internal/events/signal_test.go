package events

import (
	"sync"
	"testing"
)

func TestSignal_EmitInConnectionOrder(t *testing.T) {
	var signal Signal[int]
	var order []string

	signal.Connect(func(int) { order = append(order, "first") })
	signal.Connect(func(int) { order = append(order, "second") })
	signal.Emit(1)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("want handlers in connection order, got %v", order)
	}
}

func TestSignal_NilHandlerIgnored(t *testing.T) {
	var signal Signal[string]
	signal.Connect(nil)
	signal.Emit("no panic expected")
}

func TestSignal_ConcurrentConnectAndEmit(t *testing.T) {
	var signal Signal[int]
	var received sync.Map

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal.Connect(func(int) { received.Store(i, true) })
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal.Emit(i)
		}()
	}
	wg.Wait()

	// Every handler sees emits that happen after its connect
	signal.Emit(-1)
	for i := 0; i < 8; i++ {
		if _, ok := received.Load(i); !ok {
			t.Fatalf("handler %d never ran", i)
		}
	}
}
