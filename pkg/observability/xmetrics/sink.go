package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xmeasure/pkg/observability/xmetrics"

	metricTotal             = "xmeasure.measurement.total"
	metricDuration          = "xmeasure.measurement.duration"
	metricThresholdExceeded = "xmeasure.threshold.exceeded"
	metricMemoryDelta       = "xmeasure.memory.delta"
	metricGCCollections     = "xmeasure.gc.collections"

	// EventName 追加到活跃 span 的事件名
	EventName = "xmeasure.measurement"

	unnamedSpan = "measurement"
)

type config struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
	tracerProvider      trace.TracerProvider
	spanEvents          bool
	nameAttribute       bool
}

// Option Sink 选项
type Option func(*config)

// WithInstrumentationName 设置 instrumentation 名称
func WithInstrumentationName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认 otel.GetMeterProvider()
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(c *config) {
		if p != nil {
			c.meterProvider = p
		}
	}
}

// WithTracerProvider 为每次测量补记一个 span
func WithTracerProvider(p trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = p }
}

// WithSpanEvents 是否向活跃 span 追加事件，默认开启
func WithSpanEvents(enabled bool) Option {
	return func(c *config) { c.spanEvents = enabled }
}

// WithNameAttribute 指标是否带 measure.name 维度，默认开启
func WithNameAttribute(enabled bool) Option {
	return func(c *config) { c.nameAttribute = enabled }
}

// Sink OpenTelemetry 输出端，并发安全
type Sink struct {
	tracer        trace.Tracer
	spanEvents    bool
	nameAttribute bool

	total             metric.Int64Counter
	duration          metric.Float64Histogram
	thresholdExceeded metric.Int64Counter
	memoryDelta       metric.Int64Histogram
	gcCollections     metric.Int64Counter
}

var _ xmeasure.Sink = (*Sink)(nil)

// NewSink 创建 Sink 并注册所有 instrument
func NewSink(opts ...Option) (*Sink, error) {
	cfg := config{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
		spanEvents:          true,
		nameAttribute:       true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)
	s := &Sink{spanEvents: cfg.spanEvents, nameAttribute: cfg.nameAttribute}
	if cfg.tracerProvider != nil {
		s.tracer = cfg.tracerProvider.Tracer(cfg.instrumentationName)
	}

	var err error
	if s.total, err = meter.Int64Counter(metricTotal,
		metric.WithDescription("completed measurements"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}
	if s.duration, err = meter.Float64Histogram(metricDuration,
		metric.WithDescription("measured duration"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("xmetrics: create histogram failed: %w", err)
	}
	if s.thresholdExceeded, err = meter.Int64Counter(metricThresholdExceeded,
		metric.WithDescription("measurements slower than their threshold"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}
	if s.memoryDelta, err = meter.Int64Histogram(metricMemoryDelta,
		metric.WithDescription("memory delta across the measured window"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("xmetrics: create histogram failed: %w", err)
	}
	if s.gcCollections, err = meter.Int64Counter(metricGCCollections,
		metric.WithDescription("garbage collections during measured windows"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}
	return s, nil
}

// LogMeasurement 实现 xmeasure.Sink
func (s *Sink) LogMeasurement(ctx context.Context, r xmeasure.Result, _ xmeasure.Localization, _ xmeasure.TimestampPolicy) {
	set := metric.WithAttributes(s.metricAttrs(r)...)

	s.total.Add(ctx, 1, set)
	s.duration.Record(ctx, float64(r.Elapsed)/1e6, set)
	if r.ThresholdExceeded() {
		s.thresholdExceeded.Add(ctx, 1, set)
	}
	if m := r.Memory; m != nil {
		s.memoryDelta.Record(ctx, m.Bytes, set)
		for gen, n := range []int64{m.Gen0, m.Gen1, m.Gen2} {
			if n > 0 {
				s.gcCollections.Add(ctx, n, metric.WithAttributes(AttrGCGeneration.Int(gen)))
			}
		}
	}

	if s.spanEvents {
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.AddEvent(EventName, trace.WithAttributes(detailAttrs(r)...), trace.WithTimestamp(r.Timestamp))
		}
	}
	if s.tracer != nil {
		s.recordSpan(ctx, r)
	}
}

// recordSpan 补记覆盖 [Timestamp-Elapsed, Timestamp] 的 span
func (s *Sink) recordSpan(ctx context.Context, r xmeasure.Result) {
	name := r.Name
	if name == "" {
		name = unnamedSpan
	}
	end := r.Timestamp
	_, span := s.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-r.Elapsed)),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(detailAttrs(r)...),
	)
	if r.ThresholdExceeded() {
		span.AddEvent("threshold exceeded", trace.WithAttributes(
			attribute.Int64("over_ms", r.ElapsedMs()-r.ThresholdMs),
		), trace.WithTimestamp(end))
	}
	span.End(trace.WithTimestamp(end))
}
