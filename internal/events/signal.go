// In-process event signals connecting the check layer to the writers
package events

import "sync"

// Multicast signal. Handlers connected before an emit all observe it, in
// connection order, on the emitting goroutine.
type Signal[T any] struct {
	mutex    sync.RWMutex
	handlers []func(T)
}

func (signal *Signal[T]) Connect(handler func(T)) {
	if handler == nil {
		return
	}
	signal.mutex.Lock()
	signal.handlers = append(signal.handlers, handler)
	signal.mutex.Unlock()
}

func (signal *Signal[T]) Emit(event T) {
	signal.mutex.RLock()
	handlers := signal.handlers
	signal.mutex.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
