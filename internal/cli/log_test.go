package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tablemap/pkg/observability"
)

var (
	_ observability.LayoutHooks      = (*logHooks)(nil)
	_ observability.SimulationHooks  = (*logHooks)(nil)
	_ observability.PerformanceHooks = (*logHooks)(nil)
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(5 * time.Millisecond)
	prog.done("layout computed")

	if !strings.Contains(buf.String(), "layout computed") {
		t.Errorf("progress.done() output = %q, want message", buf.String())
	}
	if prog.elapsed() < 5*time.Millisecond {
		t.Errorf("elapsed() = %v, want >= 5ms", prog.elapsed())
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level log.Level
		emit  func(h *logHooks)
		want  string
	}{
		{"layout debug hidden at info", log.InfoLevel, func(h *logHooks) { h.OnLayoutStart(ctx, "tree", 3) }, ""},
		{"layout start", log.DebugLevel, func(h *logHooks) { h.OnLayoutStart(ctx, "tree", 3) }, "layout start"},
		{"layout error", log.InfoLevel, func(h *logHooks) {
			h.OnLayoutComplete(ctx, "tree", "normal", time.Millisecond, errors.New("boom"))
		}, "layout failed"},
		{"fallback", log.DebugLevel, func(h *logHooks) { h.OnLayoutFallback(ctx, "radial", "tree", "unknown") }, "layout fallback"},
		{"simulation stop", log.DebugLevel, func(h *logHooks) { h.OnSimulationStop(ctx, "id", 300, "teardown") }, "teardown"},
		{"mode change", log.InfoLevel, func(h *logHooks) { h.OnModeChange(ctx, "auto", "high") }, "performance mode changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(&logHooks{logger: newLogger(&buf, tt.level)})
			got := buf.String()
			if tt.want == "" && got != "" {
				t.Errorf("unexpected output %q", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
