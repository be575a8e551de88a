// Single-consumer work queue with priorities and exception routing
package workqueue

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"perfdatad/internal/atomics"
	"perfdatad/internal/global"
	"perfdatad/internal/goid"
	"perfdatad/internal/logctx"
)

// Creates a new queue and starts its worker goroutine. maxDepth <= 0 selects
// the memory-derived default cap.
func New(ctx context.Context, name string, maxDepth int) (queue *Queue) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth()
	}

	queue = &Queue{
		Name:     name,
		ctx:      logctx.AppendCtxTag(ctx, global.TagQueue),
		maxDepth: maxDepth,
		ringHead: time.Now().Unix(),
		Metrics:  &MetricStorage{},
	}
	queue.cond = sync.NewCond(&queue.mutex)

	go queue.worker()
	return
}

// Adds a task from any goroutine. Within a priority band order is FIFO; the
// high band is always drained first. Beyond the depth cap tasks are dropped
// (producers are fire-and-forget, see Metrics.DroppedTotal).
func (queue *Queue) Enqueue(task Task, priority Priority) {
	queue.mutex.Lock()

	if queue.stopped {
		queue.mutex.Unlock()
		queue.Metrics.DroppedTotal.Add(1)
		return
	}

	if len(queue.normal)+len(queue.high) >= queue.maxDepth {
		queue.mutex.Unlock()
		queue.Metrics.DroppedTotal.Add(1)
		logctx.LogEvent(queue.ctx, global.VerbosityStandard, global.WarnLog,
			"Work queue '%s' over depth cap (%d), dropping task\n", queue.Name, queue.maxDepth)
		return
	}

	if priority == PriorityHigh {
		queue.high = append(queue.high, task)
	} else {
		queue.normal = append(queue.normal, task)
	}
	queue.cond.Signal()
	queue.mutex.Unlock()

	queue.Metrics.EnqueuedTotal.Add(1)
	queue.Metrics.Depth.Add(1)
}

// Installs the function invoked with the error of a failed task. The worker
// continues with the next task after the callback returns.
func (queue *Queue) SetExceptionCallback(callback func(error)) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	queue.exceptionCb = callback
}

// Reports whether the caller runs on this queue's worker goroutine
func (queue *Queue) IsWorkerThread() (onWorker bool) {
	onWorker = goid.Get() == queue.workerID.Load()
	return
}

// Current number of queued tasks (both bands, not counting the in-flight one)
func (queue *Queue) Length() (length int) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	length = len(queue.normal) + len(queue.high)
	return
}

// Number of tasks completed within the trailing window
func (queue *Queue) TaskCount(window time.Duration) (count int) {
	seconds := int(window / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	if seconds > rateRingSeconds {
		seconds = rateRingSeconds
	}

	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.advanceRing(time.Now().Unix())
	for i := 0; i < seconds; i++ {
		slot := (int(queue.ringHead) - i) % rateRingSeconds
		if slot < 0 {
			slot += rateRingSeconds
		}
		count += queue.ring[slot]
	}
	return
}

// Blocks until every queued task has finished. The worker stays attached, so
// the queue is usable again afterwards.
func (queue *Queue) Join() {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	for len(queue.normal)+len(queue.high) > 0 || queue.inFlight {
		queue.cond.Wait()
	}
}

// Drains the queue and detaches the worker goroutine permanently
func (queue *Queue) Stop() {
	queue.mutex.Lock()
	queue.stopped = true
	queue.cond.Broadcast()

	for len(queue.normal)+len(queue.high) > 0 || queue.inFlight {
		queue.cond.Wait()
	}
	queue.mutex.Unlock()
}

// Consumer side. Sole goroutine ever touching task execution.
func (queue *Queue) worker() {
	queue.workerID.Store(goid.Get())

	for {
		queue.mutex.Lock()
		for len(queue.normal) == 0 && len(queue.high) == 0 && !queue.stopped {
			queue.cond.Wait()
		}

		if len(queue.normal) == 0 && len(queue.high) == 0 && queue.stopped {
			queue.workerID.Store(0)
			queue.cond.Broadcast()
			queue.mutex.Unlock()
			return
		}

		var task Task
		if len(queue.high) > 0 {
			task = queue.high[0]
			queue.high = queue.high[1:]
		} else {
			task = queue.normal[0]
			queue.normal = queue.normal[1:]
		}
		queue.inFlight = true
		callback := queue.exceptionCb
		queue.mutex.Unlock()

		err := runTask(task)
		if err != nil {
			queue.Metrics.ExceptionsTotal.Add(1)
			if callback != nil {
				callback(err)
			}
		}

		queue.Metrics.CompletedTotal.Add(1)
		ok := atomics.Subtract(&queue.Metrics.Depth, 1, 4)
		if !ok {
			logctx.LogEvent(queue.ctx, global.VerbosityStandard, global.WarnLog,
				"failed to decrement queue depth metric after completed task\n")
		}

		queue.mutex.Lock()
		queue.advanceRing(time.Now().Unix())
		queue.ring[int(queue.ringHead)%rateRingSeconds]++
		queue.inFlight = false
		queue.cond.Broadcast() // wake Join/Stop waiters
		queue.mutex.Unlock()
	}
}

// Runs one task, converting panics into errors so one bad task cannot take
// down the worker
func runTask(task Task) (err error) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			err = fmt.Errorf("panic in work queue task: %v\n%s", fatalError, stack)
		}
	}()

	err = task()
	return
}

// Zeroes slots between the head and now. Caller holds the mutex.
func (queue *Queue) advanceRing(nowSecond int64) {
	if nowSecond <= queue.ringHead {
		return
	}

	gap := nowSecond - queue.ringHead
	if gap > rateRingSeconds {
		gap = rateRingSeconds
	}
	for i := int64(1); i <= gap; i++ {
		queue.ring[int(queue.ringHead+i)%rateRingSeconds] = 0
	}
	queue.ringHead = nowSecond
}
