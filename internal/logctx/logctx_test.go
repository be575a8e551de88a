package logctx

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"perfdatad/internal/global"
)

type syncBuffer struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (out *syncBuffer) Write(p []byte) (n int, err error) {
	out.mutex.Lock()
	n, err = out.buffer.Write(p)
	out.mutex.Unlock()
	return
}

func (out *syncBuffer) String() (text string) {
	out.mutex.Lock()
	text = out.buffer.String()
	out.mutex.Unlock()
	return
}

func waitForOutput(t *testing.T, out *syncBuffer, substring string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), substring) {
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q, got %q", substring, out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLogEvent_WritesThroughWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := NewLogger("test", global.VerbosityStandard, ctx.Done())
	ctx = WithLogger(ctx, logger)
	ctx = AppendCtxTag(ctx, global.TagTest)

	var out syncBuffer
	StartWatcher(logger, &out)

	LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "writer '%s' resumed\n", "graphite")
	waitForOutput(t, &out, "writer 'graphite' resumed")

	if !strings.Contains(out.String(), "["+global.TagTest+"]") {
		t.Fatalf("tag missing from output %q", out.String())
	}
	if !strings.Contains(out.String(), "["+global.InfoLog+"]") {
		t.Fatalf("severity missing from output %q", out.String())
	}
}

func TestLogEvent_LevelFiltering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := NewLogger("test", global.VerbosityNone, ctx.Done())
	ctx = WithLogger(ctx, logger)

	var out syncBuffer
	StartWatcher(logger, &out)

	// Above the print level, and not an error: suppressed
	LogEvent(ctx, global.VerbosityDebug, global.InfoLog, "noise\n")
	// Errors always print
	LogEvent(ctx, global.VerbosityDebug, global.ErrorLog, "problem\n")

	waitForOutput(t, &out, "problem")
	if strings.Contains(out.String(), "noise") {
		t.Fatalf("suppressed event reached output: %q", out.String())
	}
}

func TestCtxTags_CopyOnWrite(t *testing.T) {
	ctx := context.Background()
	parent := AppendCtxTag(ctx, "a")
	child := AppendCtxTag(parent, "b")

	if got := GetTagList(parent); len(got) != 1 || got[0] != "a" {
		t.Fatalf("parent tags mutated: %v", got)
	}
	if got := GetTagList(child); len(got) != 2 || got[1] != "b" {
		t.Fatalf("child tags wrong: %v", got)
	}

	popped := RemoveLastCtxTag(child)
	if got := GetTagList(popped); len(got) != 1 || got[0] != "a" {
		t.Fatalf("pop wrong: %v", got)
	}
	if got := GetTagList(child); len(got) != 2 {
		t.Fatalf("pop mutated source ctx: %v", got)
	}
}

func TestEvent_Format(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 8, 27, 12, 0, 0, 5, time.UTC),
		Severity:  global.WarnLog,
		Tags:      []string{"Daemon", "GraphiteWriter"},
		Message:   "reconnecting\n",
	}

	got := event.Format()
	if !strings.Contains(got, "[Daemon/GraphiteWriter]") {
		t.Fatalf("tags not joined: %q", got)
	}
	if !strings.Contains(got, "["+global.WarnLog+"]") {
		t.Fatalf("severity missing: %q", got)
	}
	if !strings.HasSuffix(got, "reconnecting\n") {
		t.Fatalf("message must keep caller newline: %q", got)
	}
}
