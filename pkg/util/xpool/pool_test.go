package xpool_test

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/util/xpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	noop := func(int) {}
	_, err := xpool.New[int](1, 1, nil)
	assert.ErrorIs(t, err, xpool.ErrNilHandler)
	_, err = xpool.New(0, 1, noop)
	assert.ErrorIs(t, err, xpool.ErrInvalidWorkers)
	_, err = xpool.New(1, 0, noop)
	assert.ErrorIs(t, err, xpool.ErrInvalidQueueSize)
}

func TestPool_ProcessAndDrain(t *testing.T) {
	t.Parallel()

	var processed atomic.Int32
	p, err := xpool.New(2, 16, func(int) { processed.Add(1) }, xpool.WithName("t"), nil)
	require.NoError(t, err)

	for i := range 10 {
		require.NoError(t, p.Submit(i))
	}
	p.Close()
	p.Close()

	assert.Equal(t, int32(10), processed.Load(), "close drains the queue")
	assert.ErrorIs(t, p.Submit(1), xpool.ErrPoolStopped)
}

func TestPool_QueueFull(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	p, err := xpool.New(1, 1, func(int) {
		once.Do(func() { close(started) })
		<-release
	})
	require.NoError(t, err)

	require.NoError(t, p.Submit(1))
	<-started // worker 持有第 1 个任务
	require.NoError(t, p.Submit(2))
	assert.Equal(t, 1, p.Pending())
	assert.ErrorIs(t, p.Submit(3), xpool.ErrQueueFull)

	close(release)
	p.Close()
}

func TestPool_PanicRecovered(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).Build()
	require.NoError(t, err)

	var after atomic.Bool
	p, err := xpool.New(1, 4, func(n int) {
		if n == 0 {
			panic("boom")
		}
		after.Store(true)
	}, xpool.WithLogger(logger), xpool.WithName("exporter"))
	require.NoError(t, err)

	require.NoError(t, p.Submit(0))
	require.NoError(t, p.Submit(1))
	p.Close()

	assert.True(t, after.Load(), "worker survives a panicking task")
	assert.Contains(t, buf.String(), "worker panic recovered")
	assert.Contains(t, buf.String(), "pool=exporter")
}
