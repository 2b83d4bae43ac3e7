package logger_i

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/akolanti/ContractRAG/internal/config"
)

func TestLoggerFollowsDefaultHandler(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := NewLogger("Test").With("jobId", "j-1")

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Debug("after init")
	out := buf.String()
	for _, want := range []string{"after init", "component=Test", "jobId=j-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestWithTrace(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "abc")
	NewLogger("Test").WithTrace(ctx).Info("traced")
	if !strings.Contains(buf.String(), "traceId=abc") {
		t.Errorf("trace id not logged: %q", buf.String())
	}

	buf.Reset()
	NewLogger("Test").Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug logged below info level: %q", buf.String())
	}
}
