package xmongo

import (
	"context"
	"time"
)

// SlowInsertInfo 慢写入信息
type SlowInsertInfo struct {
	// Collection 集合名称
	Collection string

	// Name 测量名称
	Name string

	// Duration 写入耗时
	Duration time.Duration
}

// SlowInsertHook 慢写入回调，在写入路径上同步执行，应保持轻量
type SlowInsertHook func(ctx context.Context, info SlowInsertInfo)

// Option 导出器选项
type Option func(*options)

type options struct {
	slowThreshold time.Duration
	slowHook      SlowInsertHook
	ttl           time.Duration
}

// WithSlowThreshold 慢写入阈值，<= 0 表示不检测
func WithSlowThreshold(d time.Duration) Option {
	return func(o *options) { o.slowThreshold = d }
}

// WithSlowInsertHook 慢写入回调
func WithSlowInsertHook(h SlowInsertHook) Option {
	return func(o *options) { o.slowHook = h }
}

// WithTTL 记录保留时长，EnsureIndexes 据此创建 TTL 索引。<= 0 表示不过期。
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}
