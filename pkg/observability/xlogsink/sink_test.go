package xlogsink

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

func newLogger(t *testing.T, buf *bytes.Buffer) xlog.Logger {
	t.Helper()
	logger, cleanup, err := xlog.New().SetOutput(buf).SetFormat("json").SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })
	return logger
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestSink_Info(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(WithLogger(newLogger(t, &buf)))
	s.LogMeasurement(context.Background(), xmeasure.Result{Name: "query", Elapsed: 80 * time.Millisecond},
		xmeasure.English, xmeasure.TimestampDisabled)

	rec := lastRecord(t, &buf)
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "[METRIKA] query duration: 80 ms", rec["msg"])
	assert.Equal(t, "query", rec[xlog.KeyName])
	assert.Equal(t, "fast", rec[xlog.KeyMeasureLevel])
	assert.NotContains(t, rec, xlog.KeyThresholdMs)
	assert.NotContains(t, rec, xlog.KeyMeasuredAt)
}

func TestSink_ThresholdWarn(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(WithLogger(newLogger(t, &buf)))
	r := xmeasure.Result{
		Name:        "sorgu",
		Elapsed:     1500 * time.Millisecond,
		ThresholdMs: 1000,
		Timestamp:   time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC),
	}
	s.LogMeasurement(context.Background(), r, xmeasure.Turkish, xmeasure.TimestampShort)

	rec := lastRecord(t, &buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "[METRİKA] sorgu süresi yüksek: 1500 ms", rec["msg"])
	assert.Equal(t, "threshold_exceeded", rec[xlog.KeyMeasureLevel])
	assert.InDelta(t, 1000, rec[xlog.KeyThresholdMs], 0)
	assert.Equal(t, "14:07:09", rec[xlog.KeyMeasuredAt])
}

func TestSink_MemoryAlerts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mem     xmeasure.MemoryDelta
		level   string
		suffix  string
		flagKey string
	}{
		{"plain", xmeasure.MemoryDelta{Bytes: 1024 * 1024, Gen0: 1}, "INFO", " | Memory: +1.00 MB", ""},
		{"high memory", xmeasure.MemoryDelta{Bytes: 200_000_000}, "WARN", " | HIGH MEMORY", xlog.KeyHighMemory},
		{"gc pressure", xmeasure.MemoryDelta{Gen2: 2}, "WARN", " | GC PRESSURE", xlog.KeyGCPressure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := New(WithLogger(newLogger(t, &buf)))
			mem := tt.mem
			s.LogMeasurement(context.Background(), xmeasure.Result{Name: "m", Memory: &mem}, xmeasure.English, xmeasure.TimestampDisabled)

			rec := lastRecord(t, &buf)
			assert.Equal(t, tt.level, rec["level"])
			assert.Contains(t, rec["msg"], tt.suffix)
			assert.Contains(t, rec, xlog.KeyGen0)
			if tt.flagKey != "" {
				assert.Equal(t, true, rec[tt.flagKey])
			}
		})
	}
}

func TestSink_CustomLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := New(WithLogger(newLogger(t, &buf)), WithLevels(xlog.LevelDebug, xlog.LevelError))

	s.LogMeasurement(context.Background(), xmeasure.Result{Name: "a"}, xmeasure.English, xmeasure.TimestampDisabled)
	assert.Equal(t, "DEBUG", lastRecord(t, &buf)["level"])

	s.LogMeasurement(context.Background(), xmeasure.Result{Name: "b", Elapsed: time.Second, ThresholdMs: 1}, xmeasure.English, xmeasure.TimestampDisabled)
	assert.Equal(t, "ERROR", lastRecord(t, &buf)["level"])
}

func TestSink_EnrichesFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := xmeasure.New(xmeasure.WithSinks(New(WithLogger(newLogger(t, &buf)))))

	ctx, err := xctx.WithTraceID(context.Background(), "0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)

	err = xmeasure.RunAsync(ctx, p, "traced", func(context.Context) error { return nil })
	require.NoError(t, err)

	rec := lastRecord(t, &buf)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", rec[xctx.KeyTraceID])
	assert.Equal(t, "traced", rec[xlog.KeyName])
}

// 以下测试修改全局 Logger，不并行
func TestSink_DefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).SetFormat("json").Build()
	require.NoError(t, err)
	xlog.SetDefault(logger)
	t.Cleanup(xlog.ResetDefault)

	New().LogMeasurement(context.Background(), xmeasure.Result{Name: "global"}, xmeasure.English, xmeasure.TimestampDisabled)
	assert.Equal(t, "global", lastRecord(t, &buf)[xlog.KeyName])
}
