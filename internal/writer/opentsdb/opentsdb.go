// OpenTSDB telnet-protocol writer
package opentsdb

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"perfdatad/internal/checkable"
	"perfdatad/internal/escape"
	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
	"perfdatad/internal/network"
	"perfdatad/internal/perfdata"
	"perfdatad/internal/timer"
	dyn "perfdatad/internal/value"
	"perfdatad/internal/writer"
)

// Ships service check results as telnet put lines. Unlike the Graphite
// writer there is no work queue: handlers run on the producing goroutine and
// serialize on the stream mutex alone.
type Writer struct {
	writer.Lifecycle

	ctx context.Context

	host string
	port uint16

	dial           network.DialFunc
	reconnectTimer *timer.Timer
	subscribeOnce  sync.Once

	streamMutex sync.Mutex
	stream      network.Stream
	connected   atomic.Bool

	shouldConnect atomic.Bool
}

type tagPair struct {
	key   string
	value string
}

func New(ctx context.Context, conf global.OpenTsdbWriterConf, dial network.DialFunc) (tsdb *Writer) {
	ctx = logctx.AppendCtxTag(ctx, global.TagOpenTsdb)

	if dial == nil {
		dial = network.DialTCP
	}

	port := conf.Port
	if port == 0 {
		port = global.DefaultOpenTsdbPort
	}

	tsdb = &Writer{
		ctx:  ctx,
		host: conf.Host,
		port: uint16(port),
		dial: dial,
	}
	tsdb.Init(conf.Name, conf.EnableHa)
	tsdb.reconnectTimer = timer.New(global.ReconnectInterval, tsdb.reconnectTimerHandler)
	return
}

func (tsdb *Writer) Resume() {
	if !tsdb.TransitionRunning() {
		return
	}

	tsdb.reconnectTimer.Start()
	tsdb.reconnectTimer.Reschedule(0)

	tsdb.subscribeOnce.Do(func() {
		checkable.OnNewServiceCheckResult.Connect(tsdb.checkResultHandler)
	})

	logctx.LogEvent(tsdb.ctx, global.VerbosityStandard, global.InfoLog, "'%s' resumed\n", tsdb.Name())
}

func (tsdb *Writer) Pause() {
	if !tsdb.TransitionPaused() {
		return
	}

	tsdb.reconnectTimer.Stop()
	tsdb.shouldConnect.Store(false)
	tsdb.resetStream()

	logctx.LogEvent(tsdb.ctx, global.VerbosityStandard, global.InfoLog, "'%s' paused\n", tsdb.Name())
}

func (tsdb *Writer) Stop() {
	tsdb.Pause()
	tsdb.TransitionStopped()
}

func (tsdb *Writer) Connected() (connected bool) {
	connected = tsdb.connected.Load()
	return
}

// Placeholder for future per-writer statistics, name only
func (tsdb *Writer) Stats() (stats *dyn.Dictionary) {
	stats = dyn.NewDictionary()
	return
}

func (tsdb *Writer) reconnectTimerHandler() {
	if tsdb.IsPaused() {
		tsdb.connected.Store(false)
		return
	}
	tsdb.reconnectInternal()
}

func (tsdb *Writer) reconnectInternal() {
	tsdb.shouldConnect.Store(true)

	if tsdb.connected.Load() {
		return
	}

	stream, err := tsdb.dial(tsdb.ctx, tsdb.host, tsdb.port)
	if err != nil {
		logctx.LogEvent(tsdb.ctx, global.VerbosityStandard, global.ErrorLog,
			"Can't connect to OpenTSDB on host '%s' port '%d': %v\n", tsdb.host, tsdb.port, err)
		return
	}

	tsdb.streamMutex.Lock()
	tsdb.stream = stream
	tsdb.streamMutex.Unlock()
	tsdb.connected.Store(true)

	logctx.LogEvent(tsdb.ctx, global.VerbosityStandard, global.InfoLog,
		"Finished reconnecting to OpenTSDB on host '%s' port '%d'\n", tsdb.host, tsdb.port)
}

func (tsdb *Writer) resetStream() {
	tsdb.streamMutex.Lock()
	if tsdb.stream != nil {
		tsdb.stream.Close()
		tsdb.stream = nil
	}
	tsdb.streamMutex.Unlock()
	tsdb.connected.Store(false)
}

// Runs on the producing goroutine
func (tsdb *Writer) checkResultHandler(event checkable.CheckEvent) {
	if tsdb.IsPaused() {
		return
	}
	tsdb.handleCheckResult(event.Subject, event.Result)
}

func (tsdb *Writer) handleCheckResult(subject checkable.Checkable, cr *checkable.CheckResult) {
	if !checkable.PerfdataEnabled() || !subject.EnablePerfdata() {
		return
	}

	host, service := checkable.GetHostService(subject)
	if host == nil {
		return
	}

	ts := cr.ExecutionEnd.Unix()
	tags := []tagPair{{"host", escape.Tag(host.Name())}}

	var metric string
	if service != nil {
		metric = "icinga.service." + escape.TsdbMetric(service.ShortName())
		tsdb.sendMetric(metric+".state", tags, float64(service.State()), ts)
	} else {
		metric = "icinga.host"
		tsdb.sendMetric(metric+".state", tags, float64(host.State()), ts)
	}

	tsdb.sendMetric(metric+".state_type", tags, float64(subject.StateType()), ts)
	tsdb.sendMetric(metric+".reachable", tags, boolToMetric(subject.IsReachable()), ts)
	tsdb.sendMetric(metric+".downtime_depth", tags, float64(subject.DowntimeDepth()), ts)
	tsdb.sendMetric(metric+".acknowledgement", tags, float64(subject.Acknowledgement()), ts)

	tsdb.sendPerfdata(subject, metric, tags, cr, ts)

	metric = "icinga.check"
	if service != nil {
		tags = append(tags, tagPair{"type", "service"}, tagPair{"service", escape.Tag(service.ShortName())})
	} else {
		tags = append(tags, tagPair{"type", "host"})
	}
	tsdb.sendMetric(metric+".current_attempt", tags, float64(subject.CheckAttempt()), ts)
	tsdb.sendMetric(metric+".max_check_attempts", tags, float64(subject.MaxCheckAttempts()), ts)
	tsdb.sendMetric(metric+".latency", tags, cr.CalculateLatency(), ts)
	tsdb.sendMetric(metric+".execution_time", tags, cr.CalculateExecutionTime(), ts)
}

func (tsdb *Writer) sendPerfdata(subject checkable.Checkable, metric string, tags []tagPair, cr *checkable.CheckResult, ts int64) {
	if cr.PerformanceData == nil {
		return
	}

	for _, element := range cr.PerformanceData.View() {
		pdv, parseErr := perfdata.FromValue(element)
		if parseErr != nil {
			logctx.LogEvent(tsdb.ctx, global.VerbosityStandard, global.WarnLog,
				"Ignoring invalid perfdata for object '%s' and command '%s' with value '%s': %v\n",
				subject.Name(), cr.Command, element.String(), parseErr)
			continue
		}

		escaped := metric + "." + escape.TsdbMetric(pdv.Label)
		tsdb.sendMetric(escaped, tags, pdv.Val, ts)

		thresholds := []struct {
			suffix string
			value  dyn.Value
		}{
			{"_crit", pdv.Crit},
			{"_warn", pdv.Warn},
			{"_min", pdv.Min},
			{"_max", pdv.Max},
		}
		for _, threshold := range thresholds {
			if !threshold.value.Truthy() {
				continue
			}
			tsdb.sendMetric(escaped+threshold.suffix, tags, threshold.value.AsNumber(), ts)
		}
	}
}

// Serializes one put line. Write failures reset the stream inline; the
// reconnect timer restores it on a later tick.
func (tsdb *Writer) sendMetric(metric string, tags []tagPair, value float64, ts int64) {
	line := "put " + metric + " " + strconv.FormatInt(ts, 10) + " " + strconv.FormatFloat(value, 'f', -1, 64)
	for _, tag := range tags {
		line += " " + tag.key + "=" + tag.value
	}
	line += "\n"

	logctx.LogEvent(tsdb.ctx, global.VerbosityData, global.InfoLog, "Add to metric list: '%s'\n", line)

	tsdb.streamMutex.Lock()
	if !tsdb.connected.Load() {
		tsdb.streamMutex.Unlock()
		return
	}

	err := tsdb.stream.Write([]byte(line))
	if err != nil {
		logctx.LogEvent(tsdb.ctx, global.VerbosityStandard, global.ErrorLog,
			"Cannot write to TCP socket on host '%s' port '%d': %v\n", tsdb.host, tsdb.port, err)
		tsdb.stream.Close()
		tsdb.stream = nil
		tsdb.connected.Store(false)
	}
	tsdb.streamMutex.Unlock()
}

func boolToMetric(flag bool) (value float64) {
	if flag {
		value = 1
	}
	return
}
