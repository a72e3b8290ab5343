package xtrace

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// Metadata Key 名称（小写加连字符）
const (
	MetaTraceID   = "x-trace-id"
	MetaSpanID    = "x-span-id"
	MetaRequestID = "x-request-id"

	MetaTraceparent = "traceparent"
	MetaTracestate  = "tracestate"
)

// ExtractFromMetadata 从 gRPC Metadata 提取追踪信息，traceparent 有效时覆盖自定义 key
func ExtractFromMetadata(md metadata.MD) TraceInfo {
	if md == nil {
		return TraceInfo{}
	}
	info := TraceInfo{
		TraceID:    metadataValue(md, MetaTraceID),
		SpanID:     metadataValue(md, MetaSpanID),
		RequestID:  metadataValue(md, MetaRequestID),
		Tracestate: metadataValue(md, MetaTracestate),
	}
	return resolve(info, metadataValue(md, MetaTraceparent))
}

// GRPCUnaryServerInterceptor 返回 gRPC 一元服务端拦截器。
//
// 启用 WithMeasure 时以 FullMethod 为名称测量 handler，handler 返回错误时不分发，
// 错误原样返回。
func GRPCUnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var trace TraceInfo
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			trace = ExtractFromMetadata(md)
		}
		ctx = injectTraceToContext(ctx, trace, cfg.autoGenerate)

		if !cfg.measure {
			return handler(ctx, req)
		}
		return xmeasure.Measure(ctx, cfg.pipeline, info.FullMethod, func() (any, error) {
			return handler(ctx, req)
		}, cfg.callOpts...)
	}
}

// GRPCUnaryClientInterceptor 返回 gRPC 客户端一元拦截器，向下游传播追踪信息
func GRPCUnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(InjectToOutgoingContext(ctx), method, req, reply, cc, opts...)
	}
}

// InjectToOutgoingContext 将追踪信息写入 outgoing metadata（复制原 metadata，Set 覆盖）
func InjectToOutgoingContext(ctx context.Context) context.Context {
	info := TraceInfoFromContext(ctx)
	if info.TraceID == "" && info.SpanID == "" && info.RequestID == "" {
		return ctx
	}

	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.New(nil)
	}

	if info.TraceID != "" {
		md.Set(MetaTraceID, info.TraceID)
	}
	if info.SpanID != "" {
		md.Set(MetaSpanID, info.SpanID)
	}
	if info.RequestID != "" {
		md.Set(MetaRequestID, info.RequestID)
	}
	if tp := formatTraceparent(info.TraceID, info.SpanID, info.TraceFlags); tp != "" {
		md.Set(MetaTraceparent, tp)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// metadataValue 取第一个值并去除空白
func metadataValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
