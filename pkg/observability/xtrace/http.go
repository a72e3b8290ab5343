package xtrace

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// HTTP Header 名称
const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderSpanID    = "X-Span-ID"
	HeaderRequestID = "X-Request-ID"

	HeaderTraceparent = "traceparent"
	HeaderTracestate  = "tracestate"
)

// errServerError 5xx 响应，测量结果不分发
var errServerError = errors.New("xtrace: server error response")

// =============================================================================
// HTTP Header 提取
// =============================================================================

// ExtractFromHTTPHeader 从 HTTP Header 提取追踪信息，traceparent 有效时覆盖自定义头
func ExtractFromHTTPHeader(h http.Header) TraceInfo {
	if h == nil {
		return TraceInfo{}
	}
	info := TraceInfo{
		TraceID:    strings.TrimSpace(h.Get(HeaderTraceID)),
		SpanID:     strings.TrimSpace(h.Get(HeaderSpanID)),
		RequestID:  strings.TrimSpace(h.Get(HeaderRequestID)),
		Tracestate: strings.TrimSpace(h.Get(HeaderTracestate)),
	}
	return resolve(info, strings.TrimSpace(h.Get(HeaderTraceparent)))
}

// =============================================================================
// HTTP 中间件
// =============================================================================

// HTTPMiddleware 返回 HTTP 中间件。
//
// 从 Header 提取追踪信息注入 context，缺失时自动生成。
// 启用 WithMeasure 时测量每个请求的处理耗时，5xx 响应不分发。
func HTTPMiddleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := applyOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := injectTraceToContext(r.Context(), ExtractFromHTTPHeader(r.Header), cfg.autoGenerate)
			r = r.WithContext(ctx)

			if !cfg.measure {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			_ = xmeasure.Run(ctx, cfg.pipeline, cfg.httpName(r.Method, r.URL.Path), func() error {
				next.ServeHTTP(rec, r)
				if rec.status >= http.StatusInternalServerError {
					return errServerError
				}
				return nil
			}, cfg.callOpts...)
		})
	}
}

// statusRecorder 记录响应状态码
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Unwrap 供 http.ResponseController 访问底层 ResponseWriter
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// =============================================================================
// HTTP Header 注入（跨服务传播）
// =============================================================================

// InjectToRequest 将 context 中的追踪信息写入请求 Header，并生成 traceparent
func InjectToRequest(ctx context.Context, req *http.Request) {
	if req == nil {
		return
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	InjectTraceToHeader(req.Header, TraceInfoFromContext(ctx))
}

// InjectTraceToHeader 将 TraceInfo 写入 Header。
//
// trace id 与 span id 都有效时生成 traceparent，flags 缺省为 "00"。
func InjectTraceToHeader(h http.Header, info TraceInfo) {
	if h == nil {
		return
	}
	if info.TraceID != "" {
		h.Set(HeaderTraceID, info.TraceID)
	}
	if info.SpanID != "" {
		h.Set(HeaderSpanID, info.SpanID)
	}
	if info.RequestID != "" {
		h.Set(HeaderRequestID, info.RequestID)
	}
	if tp := formatTraceparent(info.TraceID, info.SpanID, info.TraceFlags); tp != "" {
		h.Set(HeaderTraceparent, tp)
	}
	if info.Tracestate != "" {
		h.Set(HeaderTracestate, info.Tracestate)
	}
}

// TraceID 从 context 获取 TraceID（代理到 xctx）
func TraceID(ctx context.Context) string { return xctx.TraceID(ctx) }

// RequestID 从 context 获取 RequestID（代理到 xctx）
func RequestID(ctx context.Context) string { return xctx.RequestID(ctx) }
