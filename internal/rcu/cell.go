// Read-copy-update cell publishing immutable snapshots
package rcu

import "sync/atomic"

// Holds the currently published snapshot of a payload.
//
// Readers load the snapshot pointer and treat the payload behind it as
// immutable. Writers never mutate a published payload: they either publish a
// replacement outright (Reset) or clone-modify-swap (CopyUpdate). A snapshot
// stays valid for as long as any reader still references it, the garbage
// collector reclaims it once the last holder drops it.
type Cell[T any] struct {
	current atomic.Pointer[T]
	clone   func(T) T // produces an independent mutable copy of a snapshot
}

// Cell Constructor. The clone function is invoked on every CopyUpdate to
// derive the scratch copy the update mutates.
func NewCell[T any](initial *T, clone func(T) T) (cell *Cell[T]) {
	cell = &Cell[T]{clone: clone}
	cell.current.Store(initial)
	return
}

// Returns the currently published snapshot. Wait-free. The caller must not
// mutate the payload behind the returned pointer.
func (cell *Cell[T]) Read() (snapshot *T) {
	snapshot = cell.current.Load()
	return
}

// Atomically replaces the published snapshot with one that does not depend
// on the previous value (e.g. clearing a container).
func (cell *Cell[T]) Reset(snapshot *T) {
	cell.current.Store(snapshot)
}

// Clones the current snapshot, applies update to the clone, and attempts to
// publish it. Loops until the publish CAS succeeds.
//
// Under contention the clone and the update work are discarded and redone,
// so update must have no side effects beyond the copy it is handed.
func (cell *Cell[T]) CopyUpdate(update func(*T)) {
	for {
		observed := cell.current.Load()

		fresh := cell.clone(*observed)
		update(&fresh)

		// CAS will only succeed if no other writer published in between
		if cell.current.CompareAndSwap(observed, &fresh) {
			return
		}
	}
}

// CopyUpdate variant for updates that can be rejected. When update returns an
// error nothing is published and the cell keeps its current snapshot.
func (cell *Cell[T]) TryCopyUpdate(update func(*T) error) (err error) {
	for {
		observed := cell.current.Load()

		fresh := cell.clone(*observed)
		err = update(&fresh)
		if err != nil {
			return
		}

		if cell.current.CompareAndSwap(observed, &fresh) {
			return
		}
	}
}
