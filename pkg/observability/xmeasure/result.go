package xmeasure

import "time"

// Result 一次完成的测量。工作单元结束后构造一次，分发后不再保留。
//
// ThresholdExceeded 与 Level 由其余字段推导，不单独存储。
type Result struct {
	// Name 调用方给出的标签，可以为空
	Name string

	// Elapsed 单调时钟测得的耗时
	Elapsed time.Duration

	// ThresholdMs 阈值（毫秒），<= 0 表示不做阈值判断
	ThresholdMs int64

	// Memory 内存增量，未追踪时为 nil
	Memory *MemoryDelta

	// Timestamp 构造结果时的墙钟时间
	Timestamp time.Time
}

// ElapsedMs 截断到整毫秒，不小于 0
func (r Result) ElapsedMs() int64 {
	return max(r.Elapsed.Milliseconds(), 0)
}

// ThresholdExceeded 设置了阈值且耗时严格大于阈值
func (r Result) ThresholdExceeded() bool {
	return r.ThresholdMs > 0 && r.ElapsedMs() > r.ThresholdMs
}

// Level 超阈值优先，其次按耗时分为 Slow / Normal / Fast
func (r Result) Level() Level {
	if r.ThresholdExceeded() {
		return LevelThresholdExceeded
	}
	ms := r.ElapsedMs()
	switch {
	case ms > slowAfterMs:
		return LevelSlow
	case ms > normalAfterMs:
		return LevelNormal
	default:
		return LevelFast
	}
}
