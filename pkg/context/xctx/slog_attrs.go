package xctx

import (
	"context"
	"log/slog"
)

// AppendTraceAttrs 将 context 中的追踪信息追加到现有切片，只追加非空字段。
func AppendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := TraceID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceID, v))
	}
	if v := SpanID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeySpanID, v))
	}
	if v := RequestID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyRequestID, v))
	}
	return attrs
}

// TraceAttrs 从 context 提取追踪信息。全部为空时返回 nil。
//
// 每次调用会分配新切片，热路径建议使用 AppendTraceAttrs。
func TraceAttrs(ctx context.Context) []slog.Attr {
	attrs := AppendTraceAttrs(make([]slog.Attr, 0, traceFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// AppendMeasurementAttrs 追加测量名称（非空时）
func AppendMeasurementAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if v := Measurement(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyMeasurement, v))
	}
	return attrs
}
