package xmetrics

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// 属性键
const (
	AttrName              = attribute.Key("measure.name")
	AttrLevel             = attribute.Key("measure.level")
	AttrElapsedMs         = attribute.Key("measure.elapsed_ms")
	AttrThresholdMs       = attribute.Key("measure.threshold_ms")
	AttrThresholdExceeded = attribute.Key("measure.threshold_exceeded")
	AttrMemoryDelta       = attribute.Key("measure.memory.delta_bytes")
	AttrHighMemory        = attribute.Key("measure.memory.high")
	AttrGCPressure        = attribute.Key("measure.gc.pressure")
	AttrGCGeneration      = attribute.Key("gc.generation")
)

// metricAttrs 指标维度，只含低基数属性
func (s *Sink) metricAttrs(r xmeasure.Result) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if s.nameAttribute {
		attrs = append(attrs, AttrName.String(r.Name))
	}
	return append(attrs, AttrLevel.String(r.Level().String()))
}

// detailAttrs span 与事件属性
func detailAttrs(r xmeasure.Result) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		AttrName.String(r.Name),
		AttrLevel.String(r.Level().String()),
		AttrElapsedMs.Int64(r.ElapsedMs()),
	}
	if r.ThresholdMs > 0 {
		attrs = append(attrs,
			AttrThresholdMs.Int64(r.ThresholdMs),
			AttrThresholdExceeded.Bool(r.ThresholdExceeded()),
		)
	}
	if m := r.Memory; m != nil {
		attrs = append(attrs,
			AttrMemoryDelta.Int64(m.Bytes),
			AttrHighMemory.Bool(m.HighMemoryUsage()),
			AttrGCPressure.Bool(m.HighGCPressure()),
		)
	}
	return attrs
}
