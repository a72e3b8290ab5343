package xtrace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
)

const (
	testTraceID = "0af7651916cd43dd8448eb211c80319c"
	testSpanID  = "b7ad6b7169203331"
)

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		ok     bool
		flags  string
		wantID string
	}{
		{"标准格式", "00-" + testTraceID + "-" + testSpanID + "-01", true, "01", testTraceID},
		{"大写归一化", "00-0AF7651916CD43DD8448EB211C80319C-B7AD6B7169203331-01", true, "01", testTraceID},
		{"未来版本带扩展字段", "01-" + testTraceID + "-" + testSpanID + "-00-extra", true, "00", testTraceID},
		{"版本 ff", "ff-" + testTraceID + "-" + testSpanID + "-01", false, "", ""},
		{"00 版本多余字段", "00-" + testTraceID + "-" + testSpanID + "-01-x", false, "", ""},
		{"全零 trace id", "00-00000000000000000000000000000000-" + testSpanID + "-01", false, "", ""},
		{"非十六进制", "00-zzf7651916cd43dd8448eb211c80319c-" + testSpanID + "-01", false, "", ""},
		{"过短", "00-abc-def-01", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traceID, spanID, flags, ok := parseTraceparent(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.wantID, traceID)
				assert.Equal(t, testSpanID, spanID)
				assert.Equal(t, tt.flags, flags)
			}
		})
	}
}

func TestFormatTraceparent(t *testing.T) {
	assert.Equal(t, "00-"+testTraceID+"-"+testSpanID+"-01", formatTraceparent(testTraceID, testSpanID, "01"))
	assert.Equal(t, "00-"+testTraceID+"-"+testSpanID+"-00", formatTraceparent(testTraceID, testSpanID, ""))
	assert.Equal(t, "00-"+testTraceID+"-"+testSpanID+"-00", formatTraceparent(testTraceID, testSpanID, "x"))
	assert.Empty(t, formatTraceparent("short", testSpanID, "01"))
	assert.Empty(t, formatTraceparent(testTraceID, "0000000000000000", "01"))
}

func TestInjectTraceToContext(t *testing.T) {
	t.Run("有效值原样写入", func(t *testing.T) {
		ctx := injectTraceToContext(context.Background(), TraceInfo{
			TraceID: testTraceID, SpanID: testSpanID, RequestID: "req-1", TraceFlags: "01",
		}, true)
		assert.Equal(t, testTraceID, xctx.TraceID(ctx))
		assert.Equal(t, testSpanID, xctx.SpanID(ctx))
		assert.Equal(t, "req-1", xctx.RequestID(ctx))
		assert.Equal(t, "01", xctx.TraceFlags(ctx))
	})

	t.Run("无效值丢弃并重新生成", func(t *testing.T) {
		ctx := injectTraceToContext(context.Background(), TraceInfo{TraceID: "abc", SpanID: "xyz"}, true)
		assert.True(t, isValidTraceID(xctx.TraceID(ctx)))
		assert.True(t, isValidSpanID(xctx.SpanID(ctx)))
		assert.NotEmpty(t, xctx.RequestID(ctx))
		assert.Empty(t, xctx.TraceFlags(ctx))
	})

	t.Run("关闭自动生成", func(t *testing.T) {
		ctx := injectTraceToContext(context.Background(), TraceInfo{TraceID: "abc"}, false)
		assert.Empty(t, xctx.TraceID(ctx))
		assert.Empty(t, xctx.SpanID(ctx))
		assert.Empty(t, xctx.RequestID(ctx))
	})
}

func TestTraceInfo_IsEmpty(t *testing.T) {
	assert.True(t, TraceInfo{}.IsEmpty())
	assert.False(t, TraceInfo{Tracestate: "k=v"}.IsEmpty())
}
