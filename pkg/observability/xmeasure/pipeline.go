package xmeasure

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xmeasure/pkg/observability/xlog"
)

// state Pipeline 的不可变配置快照
type state struct {
	sinks        []Sink
	localization Localization
	timestamp    TimestampPolicy
	trackMemory  bool
}

// Defaults 当前生效的默认配置
type Defaults struct {
	Localization    Localization
	TimestampPolicy TimestampPolicy
	TrackMemory     bool
}

// Pipeline Sink 注册表与默认配置，负责把测量结果分发出去。
//
// 读路径只做一次 atomic.Load；写路径在 mu 下 copy-on-write 后整体替换。
type Pipeline struct {
	mu      sync.Mutex
	state   atomic.Pointer[state]
	tracker *Tracker
	now     func() time.Time
}

// New 创建 Pipeline。默认：English、时间戳禁用、不追踪内存、无 Sink。
func New(opts ...Option) *Pipeline {
	o := pipelineOptions{
		now: time.Now,
		state: state{
			localization: English,
			timestamp:    TimestampDisabled,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.tracker == nil {
		o.tracker = NewTracker()
	}

	p := &Pipeline{tracker: o.tracker, now: o.now}
	st := o.state
	st.sinks = nil
	for _, s := range o.sinks {
		st.sinks = appendSink(st.sinks, s)
	}
	p.state.Store(&st)
	return p
}

func appendSink(sinks []Sink, s Sink) []Sink {
	if isNilSink(s) || slices.ContainsFunc(sinks, func(x Sink) bool { return sameSink(x, s) }) {
		return sinks
	}
	return append(sinks, s)
}

// update 在锁内修改当前快照的副本，再整体替换。
func (p *Pipeline) update(fn func(st *state)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := *p.state.Load()
	next.sinks = slices.Clone(next.sinks)
	fn(&next)
	p.state.Store(&next)
}

// Register 追加 Sink。nil 与已注册的实例被静默忽略。
func (p *Pipeline) Register(s Sink) {
	if isNilSink(s) {
		return
	}
	p.update(func(st *state) { st.sinks = appendSink(st.sinks, s) })
}

// Unregister 移除 Sink，返回是否找到
func (p *Pipeline) Unregister(s Sink) bool {
	if isNilSink(s) {
		return false
	}
	var found bool
	p.update(func(st *state) {
		st.sinks = slices.DeleteFunc(st.sinks, func(x Sink) bool {
			if sameSink(x, s) {
				found = true
				return true
			}
			return false
		})
	})
	return found
}

// Clear 清空注册表
func (p *Pipeline) Clear() {
	p.update(func(st *state) { st.sinks = nil })
}

// Len 已注册的 Sink 数量
func (p *Pipeline) Len() int {
	return len(p.state.Load().sinks)
}

// Sinks 按注册顺序返回 Sink 副本
func (p *Pipeline) Sinks() []Sink {
	return slices.Clone(p.state.Load().sinks)
}

// ConfigureLocalization 设置默认文案表，nil 恢复为 English
func (p *Pipeline) ConfigureLocalization(l *Localization) {
	loc := English
	if l != nil {
		loc = *l
	}
	p.update(func(st *state) { st.localization = loc })
}

// ConfigureTimestampPolicy 设置默认时间戳策略，nil 恢复为禁用
func (p *Pipeline) ConfigureTimestampPolicy(ts *TimestampPolicy) {
	policy := TimestampDisabled
	if ts != nil {
		policy = *ts
	}
	p.update(func(st *state) { st.timestamp = policy })
}

// ConfigureMemoryTracking 设置默认是否追踪内存
func (p *Pipeline) ConfigureMemoryTracking(track bool) {
	p.update(func(st *state) { st.trackMemory = track })
}

// Defaults 返回当前默认配置
func (p *Pipeline) Defaults() Defaults {
	st := p.state.Load()
	return Defaults{
		Localization:    st.localization,
		TimestampPolicy: st.timestamp,
		TrackMemory:     st.trackMemory,
	}
}

// Dispatch 分发一条结果。
//
// 提供了 WithLogger 时先输出直接日志；注册表为空则到此为止，
// 否则解析生效的文案表与时间戳策略，按注册顺序调用每个 Sink。
// opts 中的 WithThreshold 与 WithTrackMemory 对分发没有影响。
func (p *Pipeline) Dispatch(ctx context.Context, r Result, opts ...CallOption) {
	p.dispatch(ctx, r, newCallConfig(opts))
}

func (p *Pipeline) dispatch(ctx context.Context, r Result, call callConfig) {
	if call.logger != nil {
		logDirect(ctx, call.logger, r)
	}

	st := p.state.Load()
	if len(st.sinks) == 0 {
		return
	}

	loc := call.localization.orElse(st.localization)
	ts := call.timestamp.orElse(st.timestamp)
	for _, s := range st.sinks {
		s.LogMeasurement(ctx, r, loc, ts)
	}
}

const (
	iconWarn = "⚠️"
	iconInfo = "⏱️"

	directDuration     = "duration"
	directDurationHigh = "duration high"
)

// logDirect 直接日志固定使用英文短语，字段同时以 slog.Attr 输出便于检索。
func logDirect(ctx context.Context, l xlog.Logger, r Result) {
	exceeded := r.ThresholdExceeded()
	icon, text := iconInfo, directDuration
	if exceeded {
		icon, text = iconWarn, directDurationHigh
	}
	ms := r.ElapsedMs()

	attrs := make([]slog.Attr, 0, 9)
	attrs = append(attrs,
		slog.String(xlog.KeyIcon, icon),
		slog.String(xlog.KeyName, r.Name),
		slog.String(xlog.KeyDurationText, text),
		slog.Int64(xlog.KeyElapsedMs, ms),
	)
	if r.ThresholdMs > 0 {
		attrs = append(attrs, slog.Int64(xlog.KeyThresholdMs, r.ThresholdMs))
	}

	msg := fmt.Sprintf("%s %s %s: %d ms", icon, r.Name, text, ms)
	if m := r.Memory; m != nil {
		msg += fmt.Sprintf(" | Memory: %+.2f MB | GC: Gen0: %d, Gen1: %d, Gen2: %d", m.MB(), m.Gen0, m.Gen1, m.Gen2)
		attrs = append(attrs,
			slog.Float64(xlog.KeyMemoryDeltaMB, math.Round(m.MB()*100)/100),
			slog.Int64(xlog.KeyGen0, m.Gen0),
			slog.Int64(xlog.KeyGen1, m.Gen1),
			slog.Int64(xlog.KeyGen2, m.Gen2),
		)
	}

	if exceeded {
		l.Warn(ctx, msg, attrs...)
		return
	}
	l.Info(ctx, msg, attrs...)
}
