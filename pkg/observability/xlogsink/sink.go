package xlogsink

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// Sink 基于 xlog.Logger 的 Sink
type Sink struct {
	logger xlog.Logger
	normal xlog.Level
	alert  xlog.Level
}

var _ xmeasure.Sink = (*Sink)(nil)

// Option Sink 选项
type Option func(*Sink)

// WithLogger 目标 Logger，默认在每次写入时取 xlog.Default()
func WithLogger(l xlog.Logger) Option {
	return func(s *Sink) { s.logger = l }
}

// WithLevels 普通结果与告警结果使用的级别，默认 Info / Warn
func WithLevels(normal, alert xlog.Level) Option {
	return func(s *Sink) {
		s.normal = normal
		s.alert = alert
	}
}

// New 创建 Sink
func New(opts ...Option) *Sink {
	s := &Sink{normal: xlog.LevelInfo, alert: xlog.LevelWarn}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// LogMeasurement 实现 xmeasure.Sink
func (s *Sink) LogMeasurement(ctx context.Context, r xmeasure.Result, loc xmeasure.Localization, ts xmeasure.TimestampPolicy) {
	logger := s.logger
	if logger == nil {
		logger = xlog.Default()
	}

	alert := r.ThresholdExceeded()
	duration := loc.Duration
	if alert {
		duration = loc.DurationHigh
	}
	msg := fmt.Sprintf("[%s] %s %s: %d %s", loc.Prefix, r.Name, duration, r.ElapsedMs(), loc.Milliseconds)

	attrs := make([]slog.Attr, 0, 12)
	attrs = append(attrs,
		slog.String(xlog.KeyName, r.Name),
		slog.Int64(xlog.KeyElapsedMs, r.ElapsedMs()),
		slog.String(xlog.KeyMeasureLevel, r.Level().String()),
	)
	if r.ThresholdMs > 0 {
		attrs = append(attrs, slog.Int64(xlog.KeyThresholdMs, r.ThresholdMs))
	}
	if stamp := ts.Format(r.Timestamp); stamp != "" {
		attrs = append(attrs, slog.String(xlog.KeyMeasuredAt, stamp))
	}

	if m := r.Memory; m != nil {
		msg += fmt.Sprintf(" | %s: %+.2f MB", loc.Memory, m.MB())
		attrs = append(attrs,
			slog.Float64(xlog.KeyMemoryDeltaMB, math.Round(m.MB()*100)/100),
			slog.Int64(xlog.KeyGen0, m.Gen0),
			slog.Int64(xlog.KeyGen1, m.Gen1),
			slog.Int64(xlog.KeyGen2, m.Gen2),
		)
		switch {
		case m.HighMemoryUsage():
			alert = true
			msg += " | " + loc.HighMemory
			attrs = append(attrs, slog.Bool(xlog.KeyHighMemory, true))
		case m.HighGCPressure():
			alert = true
			msg += " | " + loc.GCPressure
			attrs = append(attrs, slog.Bool(xlog.KeyGCPressure, true))
		}
	}

	level := s.normal
	if alert {
		level = s.alert
	}
	xlog.LogAt(ctx, logger, level, msg, attrs...)
}
