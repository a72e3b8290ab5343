package xlog

import (
	"log/slog"
	"time"
)

// 通用属性 key
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyComponent = "component"
	KeyOperation = "operation"
)

// 测量日志属性 key
const (
	KeyIcon          = "icon"
	KeyName          = "name"
	KeyDurationText  = "duration_text"
	KeyElapsedMs     = "elapsed_ms"
	KeyThresholdMs   = "threshold_ms"
	KeyMemoryDeltaMB = "memory_delta_mb"
	KeyGen0          = "gen0"
	KeyGen1          = "gen1"
	KeyGen2          = "gen2"
	KeyMeasureLevel  = "measure_level"
	KeyMeasuredAt    = "measured_at"
	KeyHighMemory    = "high_memory"
	KeyGCPressure    = "gc_pressure"
)

// Err 错误属性。err 为 nil 时返回空属性（slog 会忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 人类可读的耗时属性（如 "1.5s"）
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}
