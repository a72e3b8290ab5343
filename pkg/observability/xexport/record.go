package xexport

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// Record 测量结果的导出信封，同时带 JSON 与 BSON 标签
type Record struct {
	ID                string    `json:"id" bson:"_id"`
	Name              string    `json:"name" bson:"name"`
	ElapsedMs         int64     `json:"elapsed_ms" bson:"elapsed_ms"`
	ThresholdMs       int64     `json:"threshold_ms" bson:"threshold_ms"`
	ThresholdExceeded bool      `json:"threshold_exceeded" bson:"threshold_exceeded"`
	Level             string    `json:"level" bson:"level"`
	Timestamp         time.Time `json:"timestamp" bson:"timestamp"`
	TimestampText     string    `json:"timestamp_text,omitempty" bson:"timestamp_text,omitempty"`
	Prefix            string    `json:"prefix" bson:"prefix"`
	TraceID           string    `json:"trace_id,omitempty" bson:"trace_id,omitempty"`
	Memory            *Memory   `json:"memory,omitempty" bson:"memory,omitempty"`
}

// Memory 内存增量
type Memory struct {
	DeltaBytes     int64   `json:"delta_bytes" bson:"delta_bytes"`
	DeltaMB        float64 `json:"delta_mb" bson:"delta_mb"`
	AllocatedBytes int64   `json:"allocated_bytes" bson:"allocated_bytes"`
	Gen0           int64   `json:"gen0" bson:"gen0"`
	Gen1           int64   `json:"gen1" bson:"gen1"`
	Gen2           int64   `json:"gen2" bson:"gen2"`
	HighMemory     bool    `json:"high_memory" bson:"high_memory"`
	HighGCPressure bool    `json:"high_gc_pressure" bson:"high_gc_pressure"`
}

// NewRecord 构造导出记录，ID 为随机 UUID（v4），Timestamp 统一为 UTC
func NewRecord(ctx context.Context, r xmeasure.Result, loc xmeasure.Localization, ts xmeasure.TimestampPolicy) Record {
	return newRecord(ctx, uuid.NewString(), r, loc, ts)
}

func newRecord(ctx context.Context, id string, r xmeasure.Result, loc xmeasure.Localization, ts xmeasure.TimestampPolicy) Record {
	rec := Record{
		ID:                id,
		Name:              r.Name,
		ElapsedMs:         r.ElapsedMs(),
		ThresholdMs:       r.ThresholdMs,
		ThresholdExceeded: r.ThresholdExceeded(),
		Level:             r.Level().String(),
		Timestamp:         r.Timestamp.UTC(),
		TimestampText:     ts.Format(r.Timestamp),
		Prefix:            loc.Prefix,
		TraceID:           xctx.TraceID(ctx),
	}
	if m := r.Memory; m != nil {
		rec.Memory = &Memory{
			DeltaBytes:     m.Bytes,
			DeltaMB:        m.MB(),
			AllocatedBytes: m.AllocatedBytes,
			Gen0:           m.Gen0,
			Gen1:           m.Gen1,
			Gen2:           m.Gen2,
			HighMemory:     m.HighMemoryUsage(),
			HighGCPressure: m.HighGCPressure(),
		}
	}
	return rec
}
