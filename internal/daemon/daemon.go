// Daemon wiring the perfdata writers to config, HA control and lifecycle
package daemon

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
	dyn "perfdatad/internal/value"
	"perfdatad/internal/writer"
	"perfdatad/internal/writer/beats"
	"perfdatad/internal/writer/graphite"
	"perfdatad/internal/writer/opentsdb"
)

// What the daemon needs from each writer regardless of dialect
type managedWriter interface {
	Name() string
	HAMode() writer.HAMode
	Resume()
	Pause()
	Stop()
	Stats() *dyn.Dictionary
}

type Daemon struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	configPath string

	mutex   sync.Mutex
	cfg     global.Config
	writers []managedWriter
	active  bool

	statsServer *http.Server
}

func NewDaemon(configPath string) (daemon *Daemon) {
	daemon = &Daemon{
		configPath: configPath,
		active:     true,
	}
	return
}

// Builds the writers from config and brings the daemon up. Run-once writers
// only resume while this instance holds leadership.
func (daemon *Daemon) Start(globalCtx context.Context, cfg global.Config) (err error) {
	daemon.ctx, daemon.cancel = context.WithCancel(context.Background())
	daemon.ctx = context.WithValue(daemon.ctx, global.LoggerKey, logctx.GetLogger(globalCtx))

	// Top level tag for daemon logs
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.TagDaemon)

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	global.Hostname, err = os.Hostname()
	if err != nil {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"Failed to determine local hostname: %v\n", err)
		global.Hostname = "localhost"
		err = nil
	}
	global.PID = os.Getpid()

	daemon.mutex.Lock()
	daemon.cfg = cfg
	daemon.writers = buildWriters(daemon.ctx, cfg)
	daemon.resumeEligibleLocked()
	daemon.mutex.Unlock()

	if cfg.Stats.Enabled {
		daemon.startStatsServer()
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

func buildWriters(ctx context.Context, cfg global.Config) (writers []managedWriter) {
	for _, conf := range cfg.Graphite {
		writers = append(writers, graphite.New(ctx, conf, nil))
	}
	for _, conf := range cfg.OpenTsdb {
		writers = append(writers, opentsdb.New(ctx, conf, nil))
	}
	for _, conf := range cfg.Beats {
		writers = append(writers, beats.New(ctx, conf, nil))
	}
	return
}

// Caller holds the mutex
func (daemon *Daemon) resumeEligibleLocked() {
	for _, managed := range daemon.writers {
		if managed.HAMode() == writer.HAModeRunEverywhere || daemon.active {
			managed.Resume()
		}
	}
}

// Leadership change from the HA controller. Run-once writers follow the
// leader flag, run-everywhere writers are unaffected.
func (daemon *Daemon) SetActive(leader bool) {
	daemon.mutex.Lock()
	defer daemon.mutex.Unlock()

	if daemon.active == leader {
		return
	}
	daemon.active = leader

	for _, managed := range daemon.writers {
		if managed.HAMode() != writer.HAModeRunOnce {
			continue
		}
		if leader {
			managed.Resume()
		} else {
			managed.Pause()
		}
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"HA leadership changed: active=%t\n", leader)
}

// Re-reads the config file and swaps the writer set. The old writers flush
// through Pause before being stopped.
func (daemon *Daemon) Reload(ctx context.Context) (err error) {
	cfg, err := LoadConfig(daemon.configPath)
	if err != nil {
		return
	}

	daemon.mutex.Lock()
	defer daemon.mutex.Unlock()

	for _, managed := range daemon.writers {
		managed.Stop()
	}

	daemon.cfg = cfg
	daemon.writers = buildWriters(daemon.ctx, cfg)
	daemon.resumeEligibleLocked()

	logctx.SetLogLevel(daemon.ctx, cfg.Logging.Level)

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"Reload complete: %d writers\n", len(daemon.writers))
	return
}

// Blocking daemon waiter
func (daemon *Daemon) Run() {
	<-daemon.ctx.Done()
}

// Gracefully stops writers and the stats listener
func (daemon *Daemon) Shutdown() {
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"Daemon shutdown started...\n")

	if daemon.statsServer != nil {
		shutdownCtx, release := context.WithTimeout(context.Background(), global.StatsWriteTimeout)
		err := daemon.statsServer.Shutdown(shutdownCtx)
		release()
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"stats HTTP server did not shutdown gracefully: %v\n", err)
		}
	}

	daemon.mutex.Lock()
	for _, managed := range daemon.writers {
		managed.Stop()
	}
	daemon.writers = nil
	daemon.mutex.Unlock()

	daemon.cancel()

	// Wait for all workers to finish (with timeout)
	done := make(chan struct{})
	go func() {
		daemon.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown completed successfully\n")
	case <-time.After(global.DaemonShutdownTimeout):
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"Timeout: daemon did not shutdown within %v seconds\n",
			global.DaemonShutdownTimeout.Seconds())
	}
}

// Snapshot of per-writer statistics as a dynamic dictionary
func (daemon *Daemon) Stats() (stats *dyn.Dictionary) {
	daemon.mutex.Lock()
	defer daemon.mutex.Unlock()

	stats = dyn.NewDictionary()
	for _, managed := range daemon.writers {
		stats.Set(managed.Name(), dyn.NewObject(managed.Stats()))
	}
	return
}
