package value

import (
	"sync"
	"sync/atomic"

	"perfdatad/internal/goid"
)

// Mutex a single goroutine may acquire repeatedly. Ownership is tracked by
// goroutine id, nesting by a depth counter only the owner touches.
type recursiveMutex struct {
	inner sync.Mutex
	owner atomic.Uint64
	depth int
}

func (mutex *recursiveMutex) lock() {
	id := goid.Get()
	if mutex.owner.Load() == id {
		mutex.depth++
		return
	}

	mutex.inner.Lock()
	mutex.owner.Store(id)
	mutex.depth = 1
}

func (mutex *recursiveMutex) unlock() {
	if mutex.owner.Load() != goid.Get() {
		panic("recursive mutex unlocked by non-owner goroutine")
	}

	mutex.depth--
	if mutex.depth == 0 {
		mutex.owner.Store(0)
		mutex.inner.Unlock()
	}
}

// Embedded by entities participating in ObjectLock scoping
type Lockable struct {
	mutex recursiveMutex
}

// Scoped exclusive lock over a lockable entity. Constructed locked (when the
// target is non-nil), released by Unlock. Re-locking the same lockable from
// the same goroutine through a second ObjectLock is fine (the underlying
// mutex is reentrant); double-locking through the same instance is a bug.
type ObjectLock struct {
	object *Lockable
	locked bool
}

// Acquires the lock on object. A nil object yields an inert lock.
func NewObjectLock(object *Lockable) (lock *ObjectLock) {
	lock = &ObjectLock{object: object}
	if lock.object != nil {
		lock.Lock()
	}
	return
}

func (lock *ObjectLock) Lock() {
	if lock.locked || lock.object == nil {
		panic("object lock misuse: relock of held lock or nil target")
	}

	lock.object.mutex.lock()
	lock.locked = true
}

// Releases the lock if held, no-op otherwise
func (lock *ObjectLock) Unlock() {
	if lock.locked {
		lock.object.mutex.unlock()
		lock.locked = false
	}
}
