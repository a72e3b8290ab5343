package xmeasure

import (
	"runtime"
	"runtime/metrics"
	"sync"
)

// MemoryReading 某一时刻的内存与 GC 累计读数
type MemoryReading struct {
	LiveBytes      int64
	AllocatedBytes int64
	Gen0           int64
	Gen1           int64
	Gen2           int64
}

// MemoryReader 读取当前内存读数
type MemoryReader interface {
	Read() MemoryReading
}

// MemoryReaderFunc 函数适配器
type MemoryReaderFunc func() MemoryReading

func (f MemoryReaderFunc) Read() MemoryReading { return f() }

// Snapshot 一次测量的内存快照。
//
// Begin 存入读数的相反数，End 再加上当时的读数，快照原地变为增量；
// 字段不导出，外部只能通过 Delta 拿到归约后的结果。
type Snapshot struct {
	bytes     int64
	allocated int64
	gen0      int64
	gen1      int64
	gen2      int64
	ended     bool
}

// Delta 返回归约后的增量。未调用 End 时返回零值。
func (s *Snapshot) Delta() MemoryDelta {
	if s == nil || !s.ended {
		return MemoryDelta{}
	}
	return MemoryDelta{
		Bytes:          s.bytes,
		AllocatedBytes: s.allocated,
		Gen0:           s.gen0,
		Gen1:           s.gen1,
		Gen2:           s.gen2,
	}
}

// Tracker 内存追踪器：先强制回收再取读数。
type Tracker struct {
	reader  MemoryReader
	collect func()
}

// TrackerOption Tracker 选项
type TrackerOption func(*Tracker)

// WithMemoryReader 替换读数来源
func WithMemoryReader(r MemoryReader) TrackerOption {
	return func(t *Tracker) {
		if r != nil {
			t.reader = r
		}
	}
}

// WithCollector 替换 Begin 前的强制回收动作
func WithCollector(fn func()) TrackerOption {
	return func(t *Tracker) {
		if fn != nil {
			t.collect = fn
		}
	}
}

// NewTracker 默认读取 runtime/metrics，Begin 前执行两次 runtime.GC：
// 第一次回收并排队终结器，第二次回收终结器释放的对象。
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		reader:  RuntimeReader(),
		collect: fullCollect,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func fullCollect() {
	runtime.GC()
	runtime.GC()
}

// Begin 强制回收后记录基线（取反）
func (t *Tracker) Begin() *Snapshot {
	t.collect()
	r := t.reader.Read()
	return &Snapshot{
		bytes:     -r.LiveBytes,
		allocated: -r.AllocatedBytes,
		gen0:      -r.Gen0,
		gen1:      -r.Gen1,
		gen2:      -r.Gen2,
	}
}

// End 把当前读数加到快照上。同一快照只生效一次。
func (t *Tracker) End(s *Snapshot) {
	if s == nil || s.ended {
		return
	}
	r := t.reader.Read()
	s.bytes += r.LiveBytes
	s.allocated += r.AllocatedBytes
	s.gen0 += r.Gen0
	s.gen1 += r.Gen1
	s.gen2 += r.Gen2
	// 高代回收必然伴随一次 GC 周期，Gen2 不超过窗口内的周期总数
	s.gen2 = min(s.gen2, max(s.gen0+s.gen1, 0))
	s.ended = true
}

// runtime/metrics 指标名
const (
	metricLiveBytes    = "/memory/classes/heap/objects:bytes"
	metricAllocBytes   = "/gc/heap/allocs:bytes"
	metricAutoCycles   = "/gc/cycles/automatic:gc-cycles"
	metricForcedCycles = "/gc/cycles/forced:gc-cycles"
	metricLimiterCycle = "/gc/limiter/last-enabled:gc-cycle"
)

// runtimeReader 的 Gen2 是限流器启用次数。
//
// last-enabled 指标是最近一次启用时的周期号而非计数，
// 每次读到周期号变化记一次启用，得到单调递增的计数。
type runtimeReader struct {
	pool sync.Pool

	mu          sync.Mutex
	lastLimiter int64
	engaged     int64
}

// RuntimeReader 基于 runtime/metrics 的读数来源，可并发使用
func RuntimeReader() MemoryReader {
	r := &runtimeReader{}
	r.pool.New = func() any {
		s := []metrics.Sample{
			{Name: metricLiveBytes},
			{Name: metricAllocBytes},
			{Name: metricAutoCycles},
			{Name: metricForcedCycles},
			{Name: metricLimiterCycle},
		}
		return &s
	}
	r.lastLimiter = r.read().limiterCycle
	return r
}

func (r *runtimeReader) Read() MemoryReading {
	raw := r.read()
	raw.reading.Gen2 = r.observeLimiter(raw.limiterCycle)
	return raw.reading
}

type rawReading struct {
	reading      MemoryReading
	limiterCycle int64
}

func (r *runtimeReader) read() rawReading {
	sp := r.pool.Get().(*[]metrics.Sample)
	defer r.pool.Put(sp)

	samples := *sp
	metrics.Read(samples)
	return rawReading{
		reading: MemoryReading{
			LiveBytes:      sampleInt(samples[0]),
			AllocatedBytes: sampleInt(samples[1]),
			Gen0:           sampleInt(samples[2]),
			Gen1:           sampleInt(samples[3]),
		},
		limiterCycle: sampleInt(samples[4]),
	}
}

// observeLimiter 周期号前进时计一次启用，返回累计启用次数
func (r *runtimeReader) observeLimiter(cycle int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cycle > r.lastLimiter {
		r.lastLimiter = cycle
		r.engaged++
	}
	return r.engaged
}

// sampleInt 当前 Go 版本不支持的指标（KindBad）读作 0
func sampleInt(s metrics.Sample) int64 {
	if s.Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return int64(s.Value.Uint64())
}
