// HTTP endpoint exposing per-writer statistics only on the local system
package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"perfdatad/internal/global"
	"perfdatad/internal/logctx"
)

type httpLogWriter struct {
	ctx context.Context
}

// Logs HTTP server errors to internal program buffer (via context logger)
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(
		logWriter.ctx,
		global.VerbosityStandard,
		global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)),
	)
	return
}

// Sets up the stats HTTP listener and serves it on a daemon goroutine
func (daemon *Daemon) startStatsServer() {
	serverCtx := logctx.AppendCtxTag(daemon.ctx, global.TagStats)

	port := daemon.cfg.Stats.Port
	if port == 0 {
		port = global.StatsListenPort
	}

	requestMultiplexer := http.NewServeMux()
	requestMultiplexer.HandleFunc("/v1/stats", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		jResp(serverCtx, serverResponder, daemon.Stats())
	})

	daemon.statsServer = &http.Server{
		Addr:         global.StatsListenAddr + ":" + strconv.Itoa(port),
		Handler:      requestMultiplexer,
		ReadTimeout:  global.StatsReadTimeout,
		WriteTimeout: global.StatsWriteTimeout,
		IdleTimeout:  global.StatsIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: serverCtx}, "", 0),
	}

	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		logctx.LogEvent(serverCtx, global.VerbosityStandard, global.InfoLog,
			"Stats server starting on %s\n", daemon.statsServer.Addr)
		err := daemon.statsServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(serverCtx, global.VerbosityStandard, global.ErrorLog,
				"Stats server failed to start: %v\n", err)
		}
	}()
}

// Encodes JSON and sends as response body
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling stats: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(buf.Bytes())
}
