package xmeasure

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// seqReader 依次返回预置读数，超出后重复最后一个
func seqReader(readings ...MemoryReading) MemoryReader {
	var i atomic.Int32
	return MemoryReaderFunc(func() MemoryReading {
		n := int(i.Add(1)) - 1
		return readings[min(n, len(readings)-1)]
	})
}

func TestTracker_RoundTrip(t *testing.T) {
	t.Parallel()

	var collected atomic.Int32
	tr := NewTracker(
		WithMemoryReader(seqReader(
			MemoryReading{LiveBytes: 1000, AllocatedBytes: 4000, Gen0: 5, Gen1: 2, Gen2: 0},
			MemoryReading{LiveBytes: 1500, AllocatedBytes: 9000, Gen0: 7, Gen1: 2, Gen2: 1},
		)),
		WithCollector(func() { collected.Add(1) }),
	)

	s := tr.Begin()
	assert.Equal(t, MemoryDelta{}, s.Delta(), "Delta before End is zero")

	tr.End(s)
	d := s.Delta()
	assert.Equal(t, MemoryDelta{Bytes: 500, AllocatedBytes: 5000, Gen0: 2, Gen1: 0, Gen2: 1}, d)
	assert.True(t, d.HighGCPressure())
	assert.False(t, d.HighMemoryUsage())
	assert.Equal(t, int32(1), collected.Load(), "only Begin collects")
}

func TestTracker_EndIsIdempotent(t *testing.T) {
	t.Parallel()

	tr := NewTracker(
		WithMemoryReader(seqReader(
			MemoryReading{LiveBytes: 100},
			MemoryReading{LiveBytes: 300},
			MemoryReading{LiveBytes: 10_000},
		)),
		WithCollector(func() {}),
	)

	s := tr.Begin()
	tr.End(s)
	tr.End(s)
	assert.Equal(t, int64(200), s.Delta().Bytes)

	tr.End(nil)
	var nilSnap *Snapshot
	assert.Equal(t, MemoryDelta{}, nilSnap.Delta())
}

func TestTracker_NegativeDelta(t *testing.T) {
	t.Parallel()

	tr := NewTracker(
		WithMemoryReader(seqReader(
			MemoryReading{LiveBytes: 200_000_000},
			MemoryReading{LiveBytes: 50_000_000},
		)),
		WithCollector(func() {}),
	)

	s := tr.Begin()
	tr.End(s)
	d := s.Delta()
	assert.Equal(t, int64(-150_000_000), d.Bytes)
	assert.True(t, d.HighMemoryUsage())
}

func TestTracker_NilOptionsKeepDefaults(t *testing.T) {
	t.Parallel()

	tr := NewTracker(WithMemoryReader(nil), WithCollector(nil))
	assert.NotNil(t, tr.reader)
	assert.NotNil(t, tr.collect)
}

func TestRuntimeReader_Monotonic(t *testing.T) {
	t.Parallel()

	r := RuntimeReader()
	before := r.Read()
	sink := make([][]byte, 0, 64)
	for range 64 {
		sink = append(sink, make([]byte, 4096))
	}
	after := r.Read()

	assert.NotEmpty(t, sink)
	assert.GreaterOrEqual(t, after.AllocatedBytes, before.AllocatedBytes)
	assert.GreaterOrEqual(t, after.Gen0, before.Gen0)
	assert.GreaterOrEqual(t, after.Gen1, before.Gen1)
	assert.Positive(t, after.LiveBytes)
}

func TestTracker_Gen2CappedByCycles(t *testing.T) {
	t.Parallel()

	tr := NewTracker(
		WithMemoryReader(seqReader(
			MemoryReading{Gen0: 10, Gen1: 4, Gen2: 0},
			MemoryReading{Gen0: 13, Gen1: 4, Gen2: 500},
		)),
		WithCollector(func() {}),
	)

	s := tr.Begin()
	tr.End(s)
	d := s.Delta()
	assert.Equal(t, int64(3), d.Gen2)
	assert.Equal(t, int64(6), d.TotalCollections())
}

func TestRuntimeReader_LimiterCountsEngagements(t *testing.T) {
	t.Parallel()

	r := &runtimeReader{}
	assert.Equal(t, int64(0), r.observeLimiter(0), "never enabled")
	assert.Equal(t, int64(1), r.observeLimiter(500), "first engagement at cycle 500")
	assert.Equal(t, int64(1), r.observeLimiter(500), "same cycle number is not a new engagement")
	assert.Equal(t, int64(2), r.observeLimiter(731))
	assert.Equal(t, int64(2), r.observeLimiter(12), "cycle number never moves backwards")

	tr := NewTracker(WithMemoryReader(RuntimeReader()), WithCollector(func() {}))
	s := tr.Begin()
	tr.End(s)
	d := s.Delta()
	assert.LessOrEqual(t, d.Gen2, d.Gen0+d.Gen1)
	assert.GreaterOrEqual(t, d.Gen2, int64(0))
}
