// Package xlogsink 把测量结果写成 xlog 结构化日志。
//
// 消息按本地化表拼出，字段统一使用 xlog 的测量属性 key，便于日志平台检索：
//
//	sink := xlogsink.New(xlogsink.WithLogger(logger))
//	pipeline.Register(sink)
//
// 超阈值或出现内存告警时输出 Warn，其余为 Info（可通过 WithLevels 调整）。
package xlogsink
