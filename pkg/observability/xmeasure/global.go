package xmeasure

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// 全局默认 Pipeline
//
// 定位：脚本、CLI 与快速接入场景。服务端推荐显式持有 *Pipeline 并注入。
// =============================================================================

var (
	globalPipeline atomic.Pointer[Pipeline]
	globalMu       sync.Mutex
)

// Default 返回全局默认 Pipeline，首次调用时惰性创建
func Default() *Pipeline {
	if p := globalPipeline.Load(); p != nil {
		return p
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if p := globalPipeline.Load(); p != nil {
		return p
	}
	p := New()
	globalPipeline.Store(p)
	return p
}

// SetDefault 替换全局默认 Pipeline，nil 被忽略
func SetDefault(p *Pipeline) {
	if p == nil {
		return
	}
	globalPipeline.Store(p)
}

// ResetDefault 丢弃全局 Pipeline，下次 Default() 重新创建（仅用于测试）
func ResetDefault() {
	globalPipeline.Store(nil)
}

// Register 在全局 Pipeline 上注册 Sink
func Register(s Sink) { Default().Register(s) }

// Unregister 从全局 Pipeline 移除 Sink
func Unregister(s Sink) bool { return Default().Unregister(s) }

// Clear 清空全局 Pipeline 的注册表
func Clear() { Default().Clear() }

// ConfigureLocalization 设置全局默认文案表，nil 恢复为 English
func ConfigureLocalization(l *Localization) { Default().ConfigureLocalization(l) }

// ConfigureTimestampPolicy 设置全局默认时间戳策略，nil 恢复为禁用
func ConfigureTimestampPolicy(ts *TimestampPolicy) { Default().ConfigureTimestampPolicy(ts) }

// ConfigureMemoryTracking 设置全局默认是否追踪内存
func ConfigureMemoryTracking(track bool) { Default().ConfigureMemoryTracking(track) }
