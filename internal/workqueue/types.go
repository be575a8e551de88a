package workqueue

import (
	"context"
	"sync"
	"sync/atomic"
)

// Unit of work executed on the queue's worker goroutine. A returned error is
// routed to the exception callback, never to the producer.
type Task func() error

type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

// Per-second completion slots retained for rate introspection (15 minutes)
const rateRingSeconds = 900

// Single-consumer FIFO with two priority bands. Producers enqueue from any
// goroutine; exactly one worker goroutine drains, so task side effects are
// serialized in dequeue order.
type Queue struct {
	Name string

	ctx context.Context // logging only

	mutex    sync.Mutex
	cond     *sync.Cond
	normal   []Task
	high     []Task
	inFlight bool // worker currently executing a task
	stopped  bool

	exceptionCb func(error)

	workerID atomic.Uint64

	maxDepth int // soft cap derived from system memory, drops beyond it

	// Ring of completions per wall-clock second
	ring     [rateRingSeconds]int
	ringHead int64 // unix second the head slot belongs to

	Metrics *MetricStorage
}
