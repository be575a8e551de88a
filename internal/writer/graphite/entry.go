// Graphite plaintext carbon writer
package graphite

import (
	"context"

	"perfdatad/internal/checkable"
	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
	"perfdatad/internal/network"
	"perfdatad/internal/timer"
	"perfdatad/internal/workqueue"
)

// Builds a writer from its config section. The writer stays Loaded until
// Resume; a nil dial falls back to the TCP dialer.
func New(ctx context.Context, conf global.GraphiteWriterConf, dial network.DialFunc) (graphite *Writer) {
	ctx = logctx.AppendCtxTag(ctx, global.TagGraphite)

	if dial == nil {
		dial = network.DialTCP
	}

	port := conf.Port
	if port == 0 {
		port = global.DefaultGraphitePort
	}

	hostTemplate := conf.HostNameTemplate
	if hostTemplate == "" {
		hostTemplate = global.DefaultHostTemplate
	}
	serviceTemplate := conf.ServiceNameTemplate
	if serviceTemplate == "" {
		serviceTemplate = global.DefaultServTemplate
	}

	graphite = &Writer{
		ctx:             ctx,
		host:            conf.Host,
		port:            uint16(port),
		hostTemplate:    hostTemplate,
		serviceTemplate: serviceTemplate,
		sendThresholds:  conf.EnableSendThresholds,
		sendMetadata:    conf.EnableSendMetadata,
		dial:            dial,
	}
	graphite.Init(conf.Name, conf.EnableHa)
	graphite.queue = workqueue.New(ctx, "graphite:"+conf.Name, 0)
	graphite.reconnectTimer = timer.New(global.ReconnectInterval, graphite.reconnectTimerHandler)
	return
}

// Activates the writer: exception routing, the reconnect loop with an
// immediate first tick, and the check result subscription.
func (graphite *Writer) Resume() {
	if !graphite.TransitionRunning() {
		return
	}

	graphite.queue.SetExceptionCallback(graphite.exceptionHandler)

	graphite.reconnectTimer.Start()
	graphite.reconnectTimer.Reschedule(0)

	graphite.subscribeOnce.Do(func() {
		checkable.OnNewCheckResult.Connect(graphite.checkResultHandler)
	})

	logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.InfoLog, "'%s' resumed\n", graphite.Name())
}

// Deactivates the writer. A final connect attempt lets the queued backlog
// flush; when it fails the backlog is dropped rather than blocking shutdown.
func (graphite *Writer) Pause() {
	if !graphite.TransitionPaused() {
		return
	}

	graphite.reconnectTimer.Stop()

	err := graphite.reconnectInternal()
	if err != nil {
		logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.InfoLog,
			"'%s' paused. Unable to connect, not flushing buffers. Data may be lost while paused.\n", graphite.Name())
		graphite.shouldConnect.Store(false)
		return
	}

	graphite.queue.Join()
	graphite.disconnectInternal()

	logctx.LogEvent(graphite.ctx, global.VerbosityStandard, global.InfoLog, "'%s' paused\n", graphite.Name())
}

// Terminal shutdown, used by the daemon on exit
func (graphite *Writer) Stop() {
	graphite.Pause()
	graphite.queue.Stop()
	graphite.TransitionStopped()
}

func (graphite *Writer) Connected() (connected bool) {
	connected = graphite.connected.Load()
	return
}
