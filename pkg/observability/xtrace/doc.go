// Package xtrace 提供链路追踪信息的跨服务传播，并可按请求测量耗时。
//
// # 设计理念
//
// 底层存储使用 xctx 包，xtrace 只做传输层适配，不维护状态。
// 测量经 xmeasure.Pipeline 分发，下游 Sink 从 context 读取 trace id，
// 因此日志、控制台与导出记录都能关联到同一请求。
//
// 支持以下追踪标识：
//   - TraceID: 链路追踪 ID（16字节，W3C Trace Context）
//   - SpanID: 跨度 ID（8字节，W3C Trace Context）
//   - RequestID: 请求 ID（业务层面，缺失时生成 UUID）
//   - TraceFlags: 采样标志（W3C trace-flags，如 "01"）
//
// # 协议支持
//
// HTTP Header: X-Trace-ID、X-Span-ID、X-Request-ID、traceparent、tracestate。
//
// gRPC Metadata: x-trace-id、x-span-id、x-request-id、traceparent、tracestate。
//
// traceparent 解析成功时优先于自定义头。
//
// # 使用方式
//
//	p := xmeasure.New(xmeasure.WithSinks(xconsole.New()))
//	h := xtrace.HTTPMiddleware(
//	    xtrace.WithMeasure(p),
//	    xtrace.WithCallOptions(xmeasure.WithThreshold(200)),
//	)(mux)
//
//	srv := grpc.NewServer(grpc.UnaryInterceptor(
//	    xtrace.GRPCUnaryServerInterceptor(xtrace.WithMeasure(p)),
//	))
//
// 处理失败的请求（HTTP 5xx 或 gRPC handler 返回错误）不产生测量结果，
// 与 xmeasure 对失败工作单元的处理一致。
//
// 客户端使用 InjectToRequest 或 GRPCUnaryClientInterceptor 向下游传播。
package xtrace
