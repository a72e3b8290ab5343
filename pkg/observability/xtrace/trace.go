package xtrace

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// =============================================================================
// 选项配置（HTTP 和 gRPC 共用）
// =============================================================================

// Option 中间件/拦截器选项
type Option func(*config)

type config struct {
	autoGenerate bool
	measure      bool
	pipeline     *xmeasure.Pipeline
	callOpts     []xmeasure.CallOption
	httpName     func(method, path string) string
}

// WithAutoGenerate 设置是否自动生成缺失的追踪 ID，默认 true
func WithAutoGenerate(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoGenerate = enabled
	}
}

// WithMeasure 启用按请求测量。p 为 nil 时使用全局 Pipeline。
func WithMeasure(p *xmeasure.Pipeline) Option {
	return func(cfg *config) {
		cfg.measure = true
		cfg.pipeline = p
	}
}

// WithCallOptions 每次测量附加的调用级选项（阈值、文案等）
func WithCallOptions(opts ...xmeasure.CallOption) Option {
	return func(cfg *config) {
		cfg.callOpts = append(cfg.callOpts, opts...)
	}
}

// WithHTTPName 自定义 HTTP 请求的测量名称，默认 "METHOD /path"
func WithHTTPName(fn func(method, path string) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.httpName = fn
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		autoGenerate: true,
		httpName:     func(method, path string) string { return method + " " + path },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// =============================================================================
// TraceInfo
// =============================================================================

// TraceInfo 链路追踪信息
type TraceInfo struct {
	TraceID    string
	SpanID     string
	RequestID  string
	TraceFlags string
	Tracestate string
}

// IsEmpty 判断追踪信息是否为空
func (t TraceInfo) IsEmpty() bool {
	return t.TraceID == "" && t.SpanID == "" && t.RequestID == "" &&
		t.TraceFlags == "" && t.Tracestate == ""
}

// TraceInfoFromContext 从 context 提取追踪信息（不含 Tracestate）
func TraceInfoFromContext(ctx context.Context) TraceInfo {
	return TraceInfo{
		TraceID:    xctx.TraceID(ctx),
		SpanID:     xctx.SpanID(ctx),
		RequestID:  xctx.RequestID(ctx),
		TraceFlags: xctx.TraceFlags(ctx),
	}
}

// resolve 合并 traceparent 与自定义字段，traceparent 有效时优先
func resolve(info TraceInfo, traceparent string) TraceInfo {
	if traceparent == "" {
		return info
	}
	if traceID, spanID, flags, ok := parseTraceparent(traceparent); ok {
		info.TraceID = traceID
		info.SpanID = spanID
		info.TraceFlags = flags
	}
	return info
}

// =============================================================================
// Context 注入
// =============================================================================

type setter func(context.Context, string) (context.Context, error)

// set ctx 非 nil 时 xctx 不会返回错误
func set(ctx context.Context, fn setter, v string) context.Context {
	if next, err := fn(ctx, v); err == nil {
		return next
	}
	return ctx
}

// injectTraceToContext 写入有效的追踪字段，无效值丢弃并按需重新生成
func injectTraceToContext(ctx context.Context, info TraceInfo, autoGenerate bool) context.Context {
	switch {
	case isValidTraceID(info.TraceID):
		ctx = set(ctx, xctx.WithTraceID, strings.ToLower(info.TraceID))
	case info.TraceID != "":
		xlog.Warn(ctx, "xtrace: invalid trace_id format, discarding", slog.String("trace_id", info.TraceID))
		fallthrough
	default:
		if autoGenerate {
			ctx = set(ctx, xctx.WithTraceID, xctx.NewTraceID())
		}
	}

	switch {
	case isValidSpanID(info.SpanID):
		ctx = set(ctx, xctx.WithSpanID, strings.ToLower(info.SpanID))
	case info.SpanID != "":
		xlog.Warn(ctx, "xtrace: invalid span_id format, discarding", slog.String("span_id", info.SpanID))
		fallthrough
	default:
		if autoGenerate {
			ctx = set(ctx, xctx.WithSpanID, xctx.NewSpanID())
		}
	}

	if info.RequestID != "" {
		ctx = set(ctx, xctx.WithRequestID, info.RequestID)
	} else if autoGenerate {
		ctx = set(ctx, xctx.WithRequestID, uuid.NewString())
	}

	if isValidTraceFlags(info.TraceFlags) {
		ctx = set(ctx, xctx.WithTraceFlags, strings.ToLower(info.TraceFlags))
	}
	return ctx
}

// =============================================================================
// W3C traceparent
// =============================================================================

// parseTraceparent 解析 {version}-{trace-id}-{parent-id}-{trace-flags}。
//
// 版本 "ff" 无效；未知版本按 00 格式解析前 4 个字段，忽略额外字段。
func parseTraceparent(traceparent string) (traceID, spanID, traceFlags string, ok bool) {
	if len(traceparent) < 55 {
		return "", "", "", false
	}

	parts := strings.SplitN(traceparent, "-", 5)
	if len(parts) < 4 {
		return "", "", "", false
	}
	if !isValidTraceparentVersion(parts[0]) {
		return "", "", "", false
	}
	// version 00 必须恰好 55 字符
	if parts[0] == "00" && len(traceparent) != 55 {
		return "", "", "", false
	}
	if !isValidTraceID(parts[1]) || !isValidSpanID(parts[2]) || !isValidTraceFlags(parts[3]) {
		return "", "", "", false
	}
	return strings.ToLower(parts[1]), strings.ToLower(parts[2]), strings.ToLower(parts[3]), true
}

func isValidTraceparentVersion(version string) bool {
	return len(version) == 2 && isValidHex(version) && !strings.EqualFold(version, "ff")
}

func isValidTraceFlags(flags string) bool {
	return len(flags) == 2 && isValidHex(flags)
}

func isValidHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// isValidTraceID 32 位十六进制且非全零
func isValidTraceID(id string) bool {
	return len(id) == 32 && isValidHex(id) && id != strings.Repeat("0", 32)
}

// isValidSpanID 16 位十六进制且非全零
func isValidSpanID(id string) bool {
	return len(id) == 16 && isValidHex(id) && id != strings.Repeat("0", 16)
}

// formatTraceparent trace id 与 span id 都有效时生成小写 traceparent，flags 缺省为 "00"
func formatTraceparent(traceID, spanID, traceFlags string) string {
	if !isValidTraceID(traceID) || !isValidSpanID(spanID) {
		return ""
	}
	if !isValidTraceFlags(traceFlags) {
		traceFlags = "00"
	}
	return "00-" + strings.ToLower(traceID) + "-" + strings.ToLower(spanID) + "-" + strings.ToLower(traceFlags)
}
