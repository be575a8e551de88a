package graphite

import (
	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
	"perfdatad/internal/workqueue"
)

// Timer tick. Producers never touch the stream, the actual connect runs as a
// queued task on the worker.
func (graphite *Writer) reconnectTimerHandler() {
	if graphite.IsPaused() {
		return
	}
	graphite.queue.Enqueue(graphite.reconnect, workqueue.PriorityNormal)
}

// Worker-side reconnect task
func (graphite *Writer) reconnect() (err error) {
	graphite.assertOnWorkQueue()

	if graphite.IsPaused() {
		graphite.connected.Store(false)
		return
	}

	err = graphite.reconnectInternal()
	return
}

// Idempotent while connected. Safe off the worker only during Pause, when
// the queue no longer receives tasks.
func (graphite *Writer) reconnectInternal() (err error) {
	graphite.shouldConnect.Store(true)

	if graphite.connected.Load() {
		return
	}

	logctx.LogEvent(graphite.ctx, global.VerbosityProgress, global.InfoLog,
		"Reconnecting to Graphite on host '%s' port '%d'\n", graphite.host, graphite.port)

	stream, err := graphite.dial(graphite.ctx, graphite.host, graphite.port)
	if err != nil {
		logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.ErrorLog,
			"Can't connect to Graphite on host '%s' port '%d': %v\n", graphite.host, graphite.port, err)
		return
	}

	graphite.streamMutex.Lock()
	graphite.stream = stream
	graphite.streamMutex.Unlock()
	graphite.connected.Store(true)

	logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.InfoLog,
		"Finished reconnecting to Graphite on host '%s' port '%d'\n", graphite.host, graphite.port)
	return
}

func (graphite *Writer) disconnectInternal() {
	if !graphite.connected.Load() {
		return
	}

	graphite.streamMutex.Lock()
	if graphite.stream != nil {
		graphite.stream.Close()
		graphite.stream = nil
	}
	graphite.streamMutex.Unlock()
	graphite.connected.Store(false)
}

// Installed on the work queue. Any failed task tears the stream down; the
// reconnect timer brings it back.
func (graphite *Writer) exceptionHandler(taskErr error) {
	logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.ErrorLog,
		"Exception during Graphite operation: %v\n", taskErr)

	graphite.disconnectInternal()
}

func (graphite *Writer) assertOnWorkQueue() {
	if !graphite.queue.IsWorkerThread() {
		panic("graphite: stream operation off the work queue worker")
	}
}
