package xconsole

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// Sink 控制台 Sink，并发安全，一次写入一整行
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	scheme Scheme
	colors bool
}

var _ xmeasure.Sink = (*Sink)(nil)

// Option Sink 选项
type Option func(*options)

type options struct {
	w      io.Writer
	scheme Scheme
	colors *bool
}

// WithWriter 输出目标，默认 os.Stdout
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.w = w
		}
	}
}

// WithScheme 配色方案，默认 SchemeDefault
func WithScheme(s Scheme) Option {
	return func(o *options) { o.scheme = s }
}

// WithColors 强制开启或关闭着色。未设置时仅当输出目标是终端才着色。
func WithColors(enable bool) Option {
	return func(o *options) { o.colors = &enable }
}

// New 创建控制台 Sink
func New(opts ...Option) *Sink {
	o := options{w: os.Stdout, scheme: SchemeDefault}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	colors := isTerminal(o.w)
	if o.colors != nil {
		colors = *o.colors
	}
	return &Sink{w: o.w, scheme: o.scheme, colors: colors}
}

// Colors 是否着色
func (s *Sink) Colors() bool { return s.colors }

// LogMeasurement 实现 xmeasure.Sink。写入失败被忽略。
func (s *Sink) LogMeasurement(_ context.Context, r xmeasure.Result, loc xmeasure.Localization, ts xmeasure.TimestampPolicy) {
	line := BuildMessage(r, loc, ts)
	if s.colors {
		line = paint(s.scheme.ColorFor(r), line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line+"\n")
}

// paint 直接拼接 SGR 序列。pterm 的 Sprint 按进程环境决定是否着色，
// 与这里的输出目标无关。
func paint(c pterm.Color, s string) string {
	return "\x1b[" + c.String() + "m" + s + "\x1b[0m"
}

// BuildMessage 按本地化表与时间戳策略生成一行文本（不含颜色与换行）
func BuildMessage(r xmeasure.Result, loc xmeasure.Localization, ts xmeasure.TimestampPolicy) string {
	parts := make([]string, 0, 8)
	parts = append(parts, "["+loc.Prefix+"]")

	if stamp := ts.Format(r.Timestamp); stamp != "" {
		parts = append(parts, "["+stamp+"]")
	}

	exceeded := r.ThresholdExceeded()
	duration := loc.Duration
	if exceeded {
		parts = append(parts, "[WARN]")
		duration = loc.DurationHigh
	} else {
		parts = append(parts, "[INFO]")
	}
	parts = append(parts, fmt.Sprintf("%s %s: %d %s", r.Name, duration, r.ElapsedMs(), loc.Milliseconds))

	if r.ThresholdMs > 0 {
		parts = append(parts, fmt.Sprintf("(%s: %d %s)", loc.Threshold, r.ThresholdMs, loc.Milliseconds))
	}

	if m := r.Memory; m != nil {
		parts = append(parts, fmt.Sprintf("| %s: %+.2f MB", loc.Memory, m.MB()))
		if m.TotalCollections() > 0 {
			parts = append(parts, fmt.Sprintf("| %s: Gen0: %d, Gen1: %d, Gen2: %d", loc.GarbageCollection, m.Gen0, m.Gen1, m.Gen2))
		}
		switch {
		case m.HighMemoryUsage():
			parts = append(parts, "[WARN] "+loc.HighMemory)
		case m.HighGCPressure():
			parts = append(parts, "[WARN] "+loc.GCPressure)
		}
	}

	return strings.Join(parts, " ")
}
