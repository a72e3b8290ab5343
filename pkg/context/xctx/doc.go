// Package xctx 提供测量调用链路上的轻量级 context 字段管理。
//
// 字段分两类：
//
// 追踪信息（Trace）- 关联外部调用链：
//   - trace_id   : 追踪标识（W3C 规范，128-bit）
//   - span_id    : 跨度标识（W3C 规范，64-bit）
//   - request_id : 请求标识
//
// 测量信息（Measurement）- 标识当前正在被测量的工作单元：
//   - measurement : 测量名称，由异步入口在派生 context 中注入
//
// # 命名约定
//
//	WithXxx(ctx, value)  - 注入：将 value 写入 context
//	Xxx(ctx)             - 读取：缺失时返回零值
//	EnsureXxx(ctx)       - 确保存在：已存在则原样返回，否则自动生成
//
// # 日志集成
//
// AppendTraceAttrs / AppendMeasurementAttrs 将非空字段追加为 slog.Attr，
// 供 xlog 的 EnrichHandler 在热路径上零分配地注入日志。
package xctx
