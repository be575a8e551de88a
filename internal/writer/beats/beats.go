// Beats (lumberjack v2) check event writer
package beats

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"

	"perfdatad/internal/checkable"
	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
	"perfdatad/internal/perfdata"
	"perfdatad/internal/timer"
	dyn "perfdatad/internal/value"
	"perfdatad/internal/workqueue"
	"perfdatad/internal/writer"
)

// Acknowledged batch sink, satisfied by the lumberjack sync client
type Sink interface {
	Send(events []interface{}) (int, error)
	Close() error
}

type ConnectFunc func(endpoint string) (Sink, error)

// Ships check results as structured events to a beats-compatible endpoint.
// Same lifecycle shape as the metric writers: a work queue owns the sink,
// a reconnect timer restores it.
type Writer struct {
	writer.Lifecycle

	ctx context.Context

	endpoint string

	connect ConnectFunc
	queue   *workqueue.Queue

	reconnectTimer *timer.Timer
	subscribeOnce  sync.Once

	sinkMutex sync.Mutex
	sink      Sink
	connected atomic.Bool

	shouldConnect atomic.Bool
}

func dialLumberjack(endpoint string) (sink Sink, err error) {
	sink, err = lumberjack.SyncDial(endpoint,
		lumberjack.CompressionLevel(0),
		lumberjack.Timeout(3*time.Second),
	)
	return
}

func New(ctx context.Context, conf global.BeatsWriterConf, connect ConnectFunc) (beats *Writer) {
	ctx = logctx.AppendCtxTag(ctx, global.TagBeats)

	if connect == nil {
		connect = dialLumberjack
	}

	beats = &Writer{
		ctx:      ctx,
		endpoint: conf.Endpoint,
		connect:  connect,
	}
	beats.Init(conf.Name, conf.EnableHa)
	beats.queue = workqueue.New(ctx, "beats:"+conf.Name, 0)
	beats.reconnectTimer = timer.New(global.ReconnectInterval, beats.reconnectTimerHandler)
	return
}

func (beats *Writer) Resume() {
	if !beats.TransitionRunning() {
		return
	}

	beats.queue.SetExceptionCallback(beats.exceptionHandler)

	beats.reconnectTimer.Start()
	beats.reconnectTimer.Reschedule(0)

	beats.subscribeOnce.Do(func() {
		checkable.OnNewCheckResult.Connect(beats.checkResultHandler)
	})

	logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.InfoLog, "'%s' resumed\n", beats.Name())
}

func (beats *Writer) Pause() {
	if !beats.TransitionPaused() {
		return
	}

	beats.reconnectTimer.Stop()

	err := beats.reconnectInternal()
	if err != nil {
		logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.InfoLog,
			"'%s' paused. Unable to connect, not flushing buffers. Data may be lost while paused.\n", beats.Name())
		beats.shouldConnect.Store(false)
		return
	}

	beats.queue.Join()
	beats.closeSink()

	logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.InfoLog, "'%s' paused\n", beats.Name())
}

func (beats *Writer) Stop() {
	beats.Pause()
	beats.queue.Stop()
	beats.TransitionStopped()
}

func (beats *Writer) Connected() (connected bool) {
	connected = beats.connected.Load()
	return
}

// Per-writer statistics for the stats endpoint
func (beats *Writer) Stats() (stats *dyn.Dictionary) {
	window := global.WorkQueueRateWindow
	rate := float64(beats.queue.TaskCount(window)) / window.Seconds()

	stats = dyn.NewDictionary(
		dyn.Pair{Key: "connected", Val: dyn.NewBool(beats.connected.Load())},
		dyn.Pair{Key: "work_queue_item_rate", Val: dyn.NewNumber(rate)},
		dyn.Pair{Key: "work_queue_items", Val: dyn.NewNumber(float64(beats.queue.Length()))},
	)
	return
}

func (beats *Writer) reconnectTimerHandler() {
	if beats.IsPaused() {
		return
	}
	beats.queue.Enqueue(func() error {
		if beats.IsPaused() {
			beats.connected.Store(false)
			return nil
		}
		return beats.reconnectInternal()
	}, workqueue.PriorityNormal)
}

func (beats *Writer) reconnectInternal() (err error) {
	beats.shouldConnect.Store(true)

	if beats.connected.Load() {
		return
	}

	sink, err := beats.connect(beats.endpoint)
	if err != nil {
		logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.ErrorLog,
			"Can't connect to beats endpoint '%s': %v\n", beats.endpoint, err)
		return
	}

	beats.sinkMutex.Lock()
	beats.sink = sink
	beats.sinkMutex.Unlock()
	beats.connected.Store(true)

	logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.InfoLog,
		"Finished reconnecting to beats endpoint '%s'\n", beats.endpoint)
	return
}

func (beats *Writer) closeSink() {
	beats.sinkMutex.Lock()
	if beats.sink != nil {
		beats.sink.Close()
		beats.sink = nil
	}
	beats.sinkMutex.Unlock()
	beats.connected.Store(false)
}

func (beats *Writer) exceptionHandler(taskErr error) {
	logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.ErrorLog,
		"Exception during beats operation: %v\n", taskErr)
	beats.closeSink()
}

func (beats *Writer) checkResultHandler(event checkable.CheckEvent) {
	if beats.IsPaused() {
		return
	}
	beats.queue.Enqueue(func() error {
		return beats.handleCheckResult(event.Subject, event.Result)
	}, workqueue.PriorityNormal)
}

func (beats *Writer) handleCheckResult(subject checkable.Checkable, cr *checkable.CheckResult) (err error) {
	if !checkable.PerfdataEnabled() || !subject.EnablePerfdata() {
		return
	}

	host, service := checkable.GetHostService(subject)
	if host == nil {
		return
	}

	fields := map[string]interface{}{
		// Minimum required fields
		"@timestamp": cr.ExecutionEnd.UTC().Format(time.RFC3339),
		"message":    cr.Output,

		// Common fields
		"host": map[string]interface{}{
			"name":     host.Name(),
			"hostname": host.Name(),
			"ip":       host.Address,
		},
		"agent": map[string]interface{}{
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"type":    "perfdatad",
			"pid":     os.Getpid(),
		},

		"check": map[string]interface{}{
			"command":            cr.Command,
			"state":              subject.State(),
			"state_type":         int(subject.StateType()),
			"current_attempt":    subject.CheckAttempt(),
			"max_check_attempts": subject.MaxCheckAttempts(),
			"reachable":          subject.IsReachable(),
			"latency":            cr.CalculateLatency(),
			"execution_time":     cr.CalculateExecutionTime(),
		},
	}

	if service != nil {
		fields["service"] = map[string]interface{}{
			"name":      service.ShortName(),
			"full_name": service.Name(),
		}
	}

	if cr.PerformanceData != nil {
		var elements []interface{}
		for _, element := range cr.PerformanceData.View() {
			pdv, parseErr := perfdata.FromValue(element)
			if parseErr != nil {
				logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.WarnLog,
					"Ignoring invalid perfdata for object '%s' with value '%s': %v\n",
					subject.Name(), element.String(), parseErr)
				continue
			}
			elements = append(elements, pdv.String())
		}
		if elements != nil {
			fields["perfdata"] = elements
		}
	}

	beats.sinkMutex.Lock()
	defer beats.sinkMutex.Unlock()

	if !beats.connected.Load() {
		return
	}

	_, err = beats.sink.Send([]interface{}{fields})
	if err != nil {
		logctx.LogEvent(beats.ctx, global.VerbosityStandard, global.ErrorLog,
			"Cannot send to beats endpoint '%s': %v\n", beats.endpoint, err)
	}
	return
}
