package workqueue

import "sync/atomic"

type MetricStorage struct {
	EnqueuedTotal   atomic.Uint64
	CompletedTotal  atomic.Uint64
	ExceptionsTotal atomic.Uint64
	DroppedTotal    atomic.Uint64
	Depth           atomic.Uint64
}
