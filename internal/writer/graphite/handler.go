package graphite

import (
	"strconv"

	"perfdatad/internal/checkable"
	"perfdatad/internal/escape"
	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
	"perfdatad/internal/macros"
	"perfdatad/internal/perfdata"
	dyn "perfdatad/internal/value"
	"perfdatad/internal/workqueue"
	"perfdatad/internal/writer"
)

// Signal-side entry, runs on the producing goroutine and must not block
func (graphite *Writer) checkResultHandler(event checkable.CheckEvent) {
	if graphite.IsPaused() {
		return
	}

	graphite.queue.Enqueue(func() error {
		return graphite.handleCheckResult(event.Subject, event.Result)
	}, workqueue.PriorityNormal)
}

// Worker-side transformation of one check result into metric lines
func (graphite *Writer) handleCheckResult(subject checkable.Checkable, cr *checkable.CheckResult) (err error) {
	if !checkable.PerfdataEnabled() || !subject.EnablePerfdata() {
		return
	}

	host, service := checkable.GetHostService(subject)
	if host == nil {
		return
	}

	var resolvers []macros.Resolver
	if service != nil {
		resolvers = append(resolvers, macros.Resolver{Name: "service", Object: service})
	}
	resolvers = append(resolvers, macros.Resolver{Name: "host", Object: host})
	resolvers = append(resolvers, writer.ApplicationResolver())

	template := graphite.hostTemplate
	if service != nil {
		template = graphite.serviceTemplate
	}

	prefix, err := macros.Resolve(template, resolvers, escape.MacroMetric)
	if err != nil {
		return
	}

	ts := cr.ExecutionEnd.Unix()

	if graphite.sendMetadata {
		err = graphite.sendMetadataMetrics(subject, cr, prefix, ts)
		if err != nil {
			return
		}
	}

	err = graphite.sendPerfdata(subject, cr, prefix, ts)
	return
}

func (graphite *Writer) sendMetadataMetrics(subject checkable.Checkable, cr *checkable.CheckResult, prefix string, ts int64) (err error) {
	metadata := []struct {
		name  string
		value float64
	}{
		{"state", float64(subject.State())},
		{"current_attempt", float64(subject.CheckAttempt())},
		{"max_check_attempts", float64(subject.MaxCheckAttempts())},
		{"state_type", float64(subject.StateType())},
		{"reachable", boolToMetric(subject.IsReachable())},
		{"downtime_depth", float64(subject.DowntimeDepth())},
		{"acknowledgement", float64(subject.Acknowledgement())},
		{"latency", cr.CalculateLatency()},
		{"execution_time", cr.CalculateExecutionTime()},
	}

	for _, item := range metadata {
		err = graphite.sendMetric(prefix+".metadata."+item.name, item.value, ts)
		if err != nil {
			return
		}
	}
	return
}

func (graphite *Writer) sendPerfdata(subject checkable.Checkable, cr *checkable.CheckResult, prefix string, ts int64) (err error) {
	if cr.PerformanceData == nil {
		return
	}

	for _, element := range cr.PerformanceData.View() {
		pdv, parseErr := perfdata.FromValue(element)
		if parseErr != nil {
			logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.WarnLog,
				"Ignoring invalid perfdata for object '%s' and command '%s' with value '%s': %v\n",
				subject.Name(), cr.Command, element.String(), parseErr)
			continue
		}

		metric := prefix + ".perfdata." + escape.MetricLabel(pdv.Label)

		err = graphite.sendMetric(metric+".value", pdv.Val, ts)
		if err != nil {
			return
		}

		if !graphite.sendThresholds {
			continue
		}
		thresholds := []struct {
			name  string
			value dyn.Value
		}{
			{"crit", pdv.Crit},
			{"warn", pdv.Warn},
			{"min", pdv.Min},
			{"max", pdv.Max},
		}
		for _, threshold := range thresholds {
			// Zero-valued thresholds are suppressed along with absent ones
			if !threshold.value.Truthy() {
				continue
			}
			err = graphite.sendMetric(metric+"."+threshold.name, threshold.value.AsNumber(), ts)
			if err != nil {
				return
			}
		}
	}
	return
}

// Serializes one line under the stream mutex. Disconnected writers drop the
// line; a failed write surfaces to the exception handler which tears the
// stream down.
func (graphite *Writer) sendMetric(name string, value float64, ts int64) (err error) {
	line := name + " " + strconv.FormatFloat(value, 'f', -1, 64) + " " + strconv.FormatInt(ts, 10) + "\n"

	logctx.LogEvent(graphite.ctx, global.VerbosityData, global.InfoLog, "Add to metric list: '%s'\n", line)

	graphite.streamMutex.Lock()
	defer graphite.streamMutex.Unlock()

	if !graphite.connected.Load() {
		return
	}

	err = graphite.stream.Write([]byte(line))
	if err != nil {
		logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.ErrorLog,
			"Cannot write to TCP socket on host '%s' port '%d': %v\n", graphite.host, graphite.port, err)
	}
	return
}

func boolToMetric(flag bool) (value float64) {
	if flag {
		value = 1
	}
	return
}
