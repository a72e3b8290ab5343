// Package observability 提供测量与可观测性相关的子包。
//
// 子包列表：
//   - xmeasure: 调用点级别的耗时与内存测量，Sink 注册表与全局管道
//   - xconsole: 终端输出 Sink，阈值着色
//   - xlogsink: 以 xlog 结构化日志输出的 Sink
//   - xfilesink: JSON Lines 文件 Sink
//   - xexport: 把测量结果投递到外部系统的通用 Sink（重试、熔断、采样）
//   - xmetrics: OpenTelemetry 指标与 span 事件 Sink
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xtrace: HTTP/gRPC 链路追踪传播，可按请求测量
//   - xsampling: 采样策略
//   - xrotate: 日志文件轮转
//
// 设计原则：
//   - 测量与输出解耦，输出端通过 xmeasure.Sink 注册
//   - 自动从 context 中提取追踪信息注入日志与导出记录
package observability
