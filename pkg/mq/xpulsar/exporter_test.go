package xpulsar

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

type fakeSender struct {
	mu       sync.Mutex
	msgs     []*pulsar.ProducerMessage
	sendErr  error
	flushErr error
	flushed  bool
	closed   bool
}

func (f *fakeSender) Send(_ context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.msgs = append(f.msgs, msg)
	return nil, nil
}

func (f *fakeSender) Flush() error {
	f.flushed = true
	return f.flushErr
}

func (f *fakeSender) Close() { f.closed = true }

// =============================================================================
// 构造
// =============================================================================

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, "t")
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	po := pulsar.ProducerOptions{}
	WithProducerName("measure-1")(&po)
	WithCompression(pulsar.ZSTD)(&po)
	assert.Equal(t, "measure-1", po.Name)
	assert.Equal(t, pulsar.ZSTD, po.CompressionType)
}

// =============================================================================
// 发送
// =============================================================================

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	fs := &fakeSender{}
	exp := newExporter(fs, "persistent://public/default/measure")

	ts := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)
	rec := xexport.Record{ID: "1", Name: "render", Level: "slow", Prefix: "METRIKA", Timestamp: ts, TraceID: "tid"}
	require.NoError(t, exp.Export(context.Background(), rec))

	require.Len(t, fs.msgs, 1)
	msg := fs.msgs[0]
	assert.Equal(t, "render", msg.Key)
	assert.Equal(t, ts, msg.EventTime)
	assert.Equal(t, map[string]string{
		PropertyLevel:   "slow",
		PropertyPrefix:  "METRIKA",
		PropertyTraceID: "tid",
	}, msg.Properties)

	var got xexport.Record
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, rec.ID, got.ID)

	sent, failed := exp.Stats()
	assert.Equal(t, int64(1), sent)
	assert.Zero(t, failed)
}

func TestExporter_SendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("producer blocked quota exceeded")
	exp := newExporter(&fakeSender{sendErr: boom}, "t")

	err := exp.Export(context.Background(), xexport.Record{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "send to t")
	_, failed := exp.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestExporter_Close(t *testing.T) {
	t.Parallel()

	fs := &fakeSender{}
	exp := newExporter(fs, "t")
	require.NoError(t, exp.Close())
	assert.True(t, fs.flushed)
	assert.True(t, fs.closed)
	assert.ErrorIs(t, exp.Close(), ErrClosed)
	assert.ErrorIs(t, exp.Export(context.Background(), xexport.Record{}), ErrClosed)

	boom := errors.New("flush failed")
	fs2 := &fakeSender{flushErr: boom}
	err := newExporter(fs2, "t2").Close()
	require.ErrorIs(t, err, boom)
	assert.True(t, fs2.closed)
}

func TestExporter_ThroughSink(t *testing.T) {
	t.Parallel()

	fs := &fakeSender{}
	sink, err := xexport.NewSink(newExporter(fs, "t"))
	require.NoError(t, err)

	p := xmeasure.New(xmeasure.WithSinks(sink))
	require.NoError(t, xmeasure.Run(context.Background(), p, "pulsar-run", func() error { return nil }))

	require.Len(t, fs.msgs, 1)
	assert.Equal(t, "pulsar-run", fs.msgs[0].Key)
	assert.Equal(t, "fast", fs.msgs[0].Properties[PropertyLevel])
}
