package xexport

import "errors"

var (
	// ErrNilExporter Exporter 为 nil
	ErrNilExporter = errors.New("xexport: exporter is nil")

	// ErrExportFailed 投递失败（重试耗尽或熔断打开）
	ErrExportFailed = errors.New("xexport: export failed")

	// ErrDropped 异步队列已满或已关闭，记录被丢弃
	ErrDropped = errors.New("xexport: record dropped")
)
