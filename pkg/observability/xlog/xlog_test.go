package xlog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, b *xlog.Builder) xlog.LoggerWithLevel {
	t.Helper()
	logger, cleanup, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })
	return logger
}

// =============================================================================
// Logger
// =============================================================================

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelWarn))
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")

	assert.False(t, logger.Enabled(ctx, xlog.LevelInfo))
	logger.SetLevel(xlog.LevelDebug)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())
	assert.True(t, logger.Enabled(ctx, xlog.LevelDebug))
}

func TestLogger_WithSharesLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf))

	child := logger.With(slog.String("service", "measure"))
	assert.Same(t, logger, logger.With(), "empty With returns receiver")
	assert.Same(t, logger, logger.WithGroup(""), "empty group returns receiver")

	logger.SetLevel(xlog.LevelError)
	child.Warn(context.Background(), "hidden")
	logger.SetLevel(xlog.LevelInfo)
	child.WithGroup("g").Info(context.Background(), "shown", slog.Int("n", 1))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "service=measure")
	assert.Contains(t, out, "g.n=1")
}

func TestLogger_JSONAndEnrich(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetFormat(" JSON "))

	ctx, _ := xctx.WithTraceID(context.Background(), "trace-1")
	ctx, _ = xctx.WithMeasurement(ctx, "load-users")
	logger.Info(ctx, "done", slog.Int64(xlog.KeyElapsedMs, 12))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "done", rec["msg"])
	assert.Equal(t, "trace-1", rec[xctx.KeyTraceID])
	assert.Equal(t, "load-users", rec[xctx.KeyMeasurement])
	assert.InDelta(t, 12, rec[xlog.KeyElapsedMs], 0)
}

func TestLogger_EnrichDisabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetEnrich(false))

	ctx, _ := xctx.WithTraceID(context.Background(), "trace-1")
	logger.Info(ctx, "plain")
	assert.NotContains(t, buf.String(), "trace-1")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLogger_OnError(t *testing.T) {
	t.Parallel()

	var got []error
	logger := build(t, xlog.New().
		SetOutput(failingWriter{}).
		SetOnError(func(err error) {
			got = append(got, err)
			panic("callback panics are contained")
		}))

	logger.Info(context.Background(), "lost")
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "disk full")
	assert.Equal(t, uint64(2), xlog.ErrorCount(logger), "write error plus callback panic")
}

// =============================================================================
// Builder
// =============================================================================

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := xlog.New().SetFormat("xml").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, _, err = xlog.New().SetLevelString("verbose").SetFormat("xml").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level", "first error wins")

	_, _, err = xlog.New().SetRotation("").Build()
	require.Error(t, err)
}

func TestBuilder_Rotation(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup, err := xlog.New().SetRotation(file).SetReplaceAttr(
		func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}).Build()
	require.NoError(t, err)

	logger.Info(context.Background(), "to file")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "cleanup is idempotent")
}

// =============================================================================
// Level
// =============================================================================

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want xlog.Level
		ok   bool
	}{
		{"debug", xlog.LevelDebug, true},
		{" INFO ", xlog.LevelInfo, true},
		{"warning", xlog.LevelWarn, true},
		{"Error", xlog.LevelError, true},
		{"trace", xlog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := xlog.ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, err == nil, tt.in)
	}

	var l xlog.Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	text, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "WARN", string(text))
	assert.Equal(t, "INFO+2", xlog.Level(2).String())
	assert.Error(t, l.UnmarshalText([]byte("nope")))
}

// =============================================================================
// 属性与 EnrichHandler
// =============================================================================

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, xlog.Err(nil))
	assert.Equal(t, "boom", xlog.Err(errors.New("boom")).Value.String())
	assert.Equal(t, "1.5s", xlog.Duration(1500*time.Millisecond).Value.String())
	assert.Equal(t, xlog.KeyComponent, xlog.Component("c").Key)
	assert.Equal(t, xlog.KeyOperation, xlog.Operation("o").Key)
}

func TestNewEnrichHandler_Nil(t *testing.T) {
	t.Parallel()

	h, err := xlog.NewEnrichHandler(nil)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, xlog.ErrNilHandler)
}

func TestEnrichHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h, err := xlog.NewEnrichHandler(slog.NewTextHandler(&buf, nil))
	require.NoError(t, err)

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("grp"))
	ctx, _ := xctx.WithRequestID(context.Background(), "req-9")
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.True(t, strings.Contains(out, "k=v"))
	assert.Contains(t, out, "grp.request_id=req-9")
}
