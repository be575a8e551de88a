package workqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestQueue(t *testing.T) (queue *Queue) {
	t.Helper()
	queue = New(context.Background(), "test", 1<<16)
	t.Cleanup(queue.Stop)
	return
}

func TestQueue_ExecutesInFIFOOrder(t *testing.T) {
	queue := newTestQueue(t)

	var mutex sync.Mutex
	var order []int

	for i := 0; i < 20; i++ {
		i := i
		queue.Enqueue(func() error {
			mutex.Lock()
			order = append(order, i)
			mutex.Unlock()
			return nil
		}, PriorityNormal)
	}
	queue.Join()

	mutex.Lock()
	defer mutex.Unlock()
	if len(order) != 20 {
		t.Fatalf("want 20 completions, got %d", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("order broken at %d: got %d", i, got)
		}
	}
}

func TestQueue_HighPriorityDrainsFirst(t *testing.T) {
	queue := newTestQueue(t)

	var mutex sync.Mutex
	var order []string

	release := make(chan struct{})
	queue.Enqueue(func() error { <-release; return nil }, PriorityNormal)

	// Queued behind the blocker, so the worker sees both bands populated
	queue.Enqueue(func() error {
		mutex.Lock()
		order = append(order, "normal")
		mutex.Unlock()
		return nil
	}, PriorityNormal)
	queue.Enqueue(func() error {
		mutex.Lock()
		order = append(order, "high")
		mutex.Unlock()
		return nil
	}, PriorityHigh)

	close(release)
	queue.Join()

	mutex.Lock()
	defer mutex.Unlock()
	if len(order) != 2 || order[0] != "high" || order[1] != "normal" {
		t.Fatalf("want high before normal, got %v", order)
	}
}

func TestQueue_ExceptionCallbackAndContinuation(t *testing.T) {
	queue := newTestQueue(t)

	var callbackErrs []error
	var mutex sync.Mutex
	queue.SetExceptionCallback(func(err error) {
		mutex.Lock()
		callbackErrs = append(callbackErrs, err)
		mutex.Unlock()
	})

	boom := errors.New("boom")
	var ranAfterFailure atomic.Bool

	queue.Enqueue(func() error { return boom }, PriorityNormal)
	queue.Enqueue(func() error { panic("kaboom") }, PriorityNormal)
	queue.Enqueue(func() error {
		ranAfterFailure.Store(true)
		return nil
	}, PriorityNormal)
	queue.Join()

	mutex.Lock()
	defer mutex.Unlock()
	if len(callbackErrs) != 2 {
		t.Fatalf("want 2 exception callbacks, got %d", len(callbackErrs))
	}
	if !errors.Is(callbackErrs[0], boom) {
		t.Fatalf("first callback should carry the task error, got %v", callbackErrs[0])
	}
	if !ranAfterFailure.Load() {
		t.Fatalf("worker did not continue after failed tasks")
	}
}

func TestQueue_IsWorkerThread(t *testing.T) {
	queue := newTestQueue(t)

	result := make(chan bool, 1)
	queue.Enqueue(func() error {
		result <- queue.IsWorkerThread()
		return nil
	}, PriorityNormal)
	queue.Join()

	if !<-result {
		t.Fatalf("task did not observe itself on the worker goroutine")
	}
	if queue.IsWorkerThread() {
		t.Fatalf("test goroutine claimed to be the worker")
	}
}

func TestQueue_JoinDrainsBacklog(t *testing.T) {
	queue := newTestQueue(t)

	var completed atomic.Uint64
	const backlog = 1000
	for i := 0; i < backlog; i++ {
		queue.Enqueue(func() error {
			completed.Add(1)
			return nil
		}, PriorityNormal)
	}

	queue.Join()

	if got := completed.Load(); got != backlog {
		t.Fatalf("join returned with %d of %d tasks executed", got, backlog)
	}
	if queue.Length() != 0 {
		t.Fatalf("queue not empty after join: %d", queue.Length())
	}
}

func TestQueue_LengthAndTaskCount(t *testing.T) {
	queue := newTestQueue(t)

	release := make(chan struct{})
	queue.Enqueue(func() error { <-release; return nil }, PriorityNormal)
	queue.Enqueue(func() error { return nil }, PriorityNormal)
	queue.Enqueue(func() error { return nil }, PriorityNormal)

	// Blocker is in flight, two queued behind it
	deadline := time.Now().Add(2 * time.Second)
	for queue.Length() != 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := queue.Length(); got != 2 {
		t.Fatalf("want length 2 behind blocker, got %d", got)
	}

	close(release)
	queue.Join()

	if got := queue.TaskCount(time.Minute); got != 3 {
		t.Fatalf("want 3 completions in window, got %d", got)
	}
}

func TestQueue_StopRejectsNewWork(t *testing.T) {
	queue := New(context.Background(), "stopping", 1<<16)

	var executed atomic.Uint64
	queue.Enqueue(func() error { executed.Add(1); return nil }, PriorityNormal)
	queue.Stop()

	queue.Enqueue(func() error { executed.Add(1); return nil }, PriorityNormal)
	time.Sleep(50 * time.Millisecond)

	if got := executed.Load(); got != 1 {
		t.Fatalf("want exactly the pre-stop task executed, got %d", got)
	}
	if got := queue.Metrics.DroppedTotal.Load(); got != 1 {
		t.Fatalf("post-stop enqueue should count as dropped, got %d", got)
	}
}
