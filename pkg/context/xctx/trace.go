package xctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

const (
	// TraceIDSize W3C 规范: 128-bit (16 bytes) -> 32 hex chars
	TraceIDSize = 16

	// SpanIDSize W3C 规范: 64-bit (8 bytes) -> 16 hex chars
	SpanIDSize = 8
)

// Trace Key 常量，遵循 OpenTelemetry 语义约定（下划线分隔）
const (
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
	KeyRequestID = "request_id"

	traceFieldCount = 3
)

const (
	keyTraceID   = contextKey("xctx:trace_id")
	keySpanID    = contextKey("xctx:span_id")
	keyRequestID = contextKey("xctx:request_id")
	keyFlags     = contextKey("xctx:trace_flags")
)

func withString(ctx context.Context, key contextKey, v string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, key, v), nil
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// WithTraceID 将 trace ID 注入 context。ctx 为 nil 时返回 ErrNilContext。
func WithTraceID(ctx context.Context, traceID string) (context.Context, error) {
	return withString(ctx, keyTraceID, traceID)
}

// TraceID 从 context 提取 trace ID，不存在返回空字符串
func TraceID(ctx context.Context) string { return stringValue(ctx, keyTraceID) }

// WithSpanID 将 span ID 注入 context
func WithSpanID(ctx context.Context, spanID string) (context.Context, error) {
	return withString(ctx, keySpanID, spanID)
}

// SpanID 从 context 提取 span ID
func SpanID(ctx context.Context) string { return stringValue(ctx, keySpanID) }

// WithRequestID 将 request ID 注入 context
func WithRequestID(ctx context.Context, requestID string) (context.Context, error) {
	return withString(ctx, keyRequestID, requestID)
}

// RequestID 从 context 提取 request ID
func RequestID(ctx context.Context) string { return stringValue(ctx, keyRequestID) }

// WithTraceFlags 将 W3C trace-flags 注入 context，用于向下游传递采样决策
func WithTraceFlags(ctx context.Context, flags string) (context.Context, error) {
	return withString(ctx, keyFlags, flags)
}

// TraceFlags 从 context 提取 trace-flags
func TraceFlags(ctx context.Context) string { return stringValue(ctx, keyFlags) }

// RequireTraceID 从 context 获取 trace ID，不存在则返回 ErrMissingTraceID。
func RequireTraceID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := TraceID(ctx)
	if v == "" {
		return "", ErrMissingTraceID
	}
	return v, nil
}

// EnsureTraceID 确保 context 中存在 trace ID。
//
// 已存在则原样返回；否则生成 32 位十六进制的 W3C trace ID 并注入。
func EnsureTraceID(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if TraceID(ctx) != "" {
		return ctx, nil
	}
	return WithTraceID(ctx, NewTraceID())
}

// NewTraceID 生成随机 trace ID（32 hex chars）。
//
// crypto/rand 在 Go 1.24+ 上不会返回错误，这里忽略其返回值。
func NewTraceID() string {
	var b [TraceIDSize]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// NewSpanID 生成随机 span ID（16 hex chars）。
func NewSpanID() string {
	var b [SpanIDSize]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
