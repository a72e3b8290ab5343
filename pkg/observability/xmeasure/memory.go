package xmeasure

// HighMemoryBytes 内存增量绝对值超过该值视为高内存占用
const HighMemoryBytes = 100_000_000

const bytesPerMB = 1024 * 1024

// MemoryDelta 一次测量窗口内的内存与 GC 增量。
//
// Gen0/Gen1/Gen2 按代价从低到高排列：
//   - Gen0: 自动触发的 GC 周期
//   - Gen1: 显式触发（runtime.GC）的 GC 周期
//   - Gen2: GC CPU 限流器的启用次数，非 0 表示窗口内 GC 压力大到触发了限流
type MemoryDelta struct {
	// Bytes 存活堆对象字节数的增量，可以为负
	Bytes int64

	// AllocatedBytes 累计分配字节数的增量
	AllocatedBytes int64

	Gen0 int64
	Gen1 int64
	Gen2 int64
}

// MB 以 MiB 表示的 Bytes
func (d MemoryDelta) MB() float64 {
	return float64(d.Bytes) / bytesPerMB
}

// TotalCollections 三代 GC 计数之和
func (d MemoryDelta) TotalCollections() int64 {
	return d.Gen0 + d.Gen1 + d.Gen2
}

// HighMemoryUsage |Bytes| > HighMemoryBytes
func (d MemoryDelta) HighMemoryUsage() bool {
	b := d.Bytes
	if b < 0 {
		b = -b
	}
	return b > HighMemoryBytes
}

// HighGCPressure 窗口内出现了最高代价的 GC
func (d MemoryDelta) HighGCPressure() bool {
	return d.Gen2 > 0
}
