package xmeasure

import (
	"time"

	"github.com/omeyang/xmeasure/pkg/observability/xlog"
)

// optional 显式的"是否设置"标记，未设置时回落到默认值
type optional[T any] struct {
	value T
	set   bool
}

func some[T any](v T) optional[T] { return optional[T]{value: v, set: true} }

func (o optional[T]) orElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// =============================================================================
// 单次调用选项
// =============================================================================

// CallOption 单次测量的覆盖选项
type CallOption func(*callConfig)

type callConfig struct {
	thresholdMs  int64
	logger       xlog.Logger
	localization optional[Localization]
	timestamp    optional[TimestampPolicy]
	trackMemory  optional[bool]
}

func newCallConfig(opts []CallOption) callConfig {
	var c callConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithThreshold 阈值（毫秒），<= 0 表示不判断
func WithThreshold(ms int64) CallOption {
	return func(c *callConfig) { c.thresholdMs = ms }
}

// WithThresholdDuration 以 time.Duration 给出阈值，截断到毫秒
func WithThresholdDuration(d time.Duration) CallOption {
	return WithThreshold(d.Milliseconds())
}

// WithLogger 直接日志通道：每次测量输出一条 Info/Warn 日志，与 Sink 注册表无关。nil 表示不输出。
func WithLogger(l xlog.Logger) CallOption {
	return func(c *callConfig) { c.logger = l }
}

// WithLocalization 覆盖本次调用的文案表
func WithLocalization(l Localization) CallOption {
	return func(c *callConfig) { c.localization = some(l) }
}

// WithTimestampPolicy 覆盖本次调用的时间戳策略
func WithTimestampPolicy(p TimestampPolicy) CallOption {
	return func(c *callConfig) { c.timestamp = some(p) }
}

// WithTrackMemory 覆盖本次调用是否追踪内存，false 同样生效
func WithTrackMemory(track bool) CallOption {
	return func(c *callConfig) { c.trackMemory = some(track) }
}

// =============================================================================
// Pipeline 选项
// =============================================================================

// Option Pipeline 构造选项
type Option func(*pipelineOptions)

type pipelineOptions struct {
	now     func() time.Time
	tracker *Tracker
	sinks   []Sink
	state   state
}

// WithClock 替换构造结果时使用的墙钟
func WithClock(now func() time.Time) Option {
	return func(o *pipelineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTracker 替换内存追踪器
func WithTracker(t *Tracker) Option {
	return func(o *pipelineOptions) {
		if t != nil {
			o.tracker = t
		}
	}
}

// WithSinks 初始注册的 Sink，规则同 Register
func WithSinks(sinks ...Sink) Option {
	return func(o *pipelineOptions) { o.sinks = append(o.sinks, sinks...) }
}

// WithDefaultLocalization 默认文案表
func WithDefaultLocalization(l Localization) Option {
	return func(o *pipelineOptions) { o.state.localization = l }
}

// WithDefaultTimestampPolicy 默认时间戳策略
func WithDefaultTimestampPolicy(ts TimestampPolicy) Option {
	return func(o *pipelineOptions) { o.state.timestamp = ts }
}

// WithDefaultTrackMemory 默认是否追踪内存
func WithDefaultTrackMemory(track bool) Option {
	return func(o *pipelineOptions) { o.state.trackMemory = track }
}
