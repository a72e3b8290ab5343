// Package xlog 基于 log/slog 的结构化日志库。
//
// 在测量工具包中承担两个角色：
//   - 测量结果的直接日志通道（xmeasure.WithLogger 接收的 Logger）
//   - 各导出器的内部错误通知（导出失败时 Warn 一条日志）
//
// # 创建 Logger
//
// Builder 模式，first-error-wins：遇到第一个配置错误后，Build 返回该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/app/app.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # Context 注入
//
// EnrichHandler 默认启用，自动从 context 提取 trace_id、span_id、request_id
// 以及当前测量名称 measurement（见 xctx）。
//
// # 全局 Logger
//
// [Default] 惰性初始化（stderr、Info、text），[SetDefault] 替换，
// [ResetDefault] 仅用于测试。服务端推荐依赖注入。
//
// # 测量属性
//
// [KeyIcon]、[KeyName]、[KeyDurationText]、[KeyElapsedMs]、[KeyMemoryDeltaMB]、
// [KeyGen0]、[KeyGen1]、[KeyGen2] 是测量日志的标准字段名。
package xlog
