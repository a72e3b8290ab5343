package xkafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
)

// fakeProducer 同步回送投递报告
type fakeProducer struct {
	mu           sync.Mutex
	msgs         []*kafka.Message
	produceErr   error
	deliveryErr  error
	event        kafka.Event
	hold         bool
	remaining    int
	flushTimeout int
	closed       bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, ch chan kafka.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.produceErr != nil {
		return f.produceErr
	}
	f.msgs = append(f.msgs, msg)
	if f.hold {
		return nil
	}
	if f.event != nil {
		ch <- f.event
		return nil
	}
	report := *msg
	report.TopicPartition.Error = f.deliveryErr
	ch <- &report
	return nil
}

func (f *fakeProducer) Flush(timeoutMs int) int {
	f.flushTimeout = timeoutMs
	return f.remaining
}

func (f *fakeProducer) Close() { f.closed = true }

func header(msg *kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// =============================================================================
// 构造
// =============================================================================

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, "t")
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = New(&kafka.ConfigMap{}, "")
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

// =============================================================================
// 发送
// =============================================================================

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	fp := &fakeProducer{}
	exp := newExporter(fp, "measure")

	ts := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)
	rec := xexport.Record{ID: "1", Name: "render", ElapsedMs: 30, Level: "fast", Timestamp: ts, TraceID: "tid"}
	require.NoError(t, exp.Export(context.Background(), rec))

	require.Len(t, fp.msgs, 1)
	msg := fp.msgs[0]
	assert.Equal(t, "measure", *msg.TopicPartition.Topic)
	assert.Equal(t, kafka.PartitionAny, msg.TopicPartition.Partition)
	assert.Equal(t, "render", string(msg.Key))
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, "application/json", header(msg, HeaderContentType))
	assert.Equal(t, "fast", header(msg, HeaderLevel))
	assert.Equal(t, "tid", header(msg, HeaderTraceID))
	assert.NotContains(t, string(msg.Value), "\n")

	var got xexport.Record
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "render", got.Name)

	produced, bytes, failed := exp.Stats()
	assert.Equal(t, int64(1), produced)
	assert.Equal(t, int64(len(msg.Value)), bytes)
	assert.Zero(t, failed)
}

func TestExporter_NoTraceHeader(t *testing.T) {
	t.Parallel()

	fp := &fakeProducer{}
	exp := newExporter(fp, "measure")
	require.NoError(t, exp.Export(context.Background(), xexport.Record{Name: "x"}))
	assert.Empty(t, header(fp.msgs[0], HeaderTraceID))
	assert.Len(t, fp.msgs[0].Headers, 2)
}

func TestExporter_Errors(t *testing.T) {
	t.Parallel()

	t.Run("produce", func(t *testing.T) {
		t.Parallel()
		boom := kafka.NewError(kafka.ErrQueueFull, "queue full", false)
		exp := newExporter(&fakeProducer{produceErr: boom}, "t")
		err := exp.Export(context.Background(), xexport.Record{})
		var kerr kafka.Error
		require.ErrorAs(t, err, &kerr)
		assert.Equal(t, kafka.ErrQueueFull, kerr.Code())
	})

	t.Run("delivery", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("broker down")
		exp := newExporter(&fakeProducer{deliveryErr: boom}, "t")
		err := exp.Export(context.Background(), xexport.Record{})
		require.ErrorIs(t, err, boom)
		_, _, failed := exp.Stats()
		assert.Equal(t, int64(1), failed)
	})

	t.Run("unexpected event", func(t *testing.T) {
		t.Parallel()
		ev := kafka.NewError(kafka.ErrAllBrokersDown, "all brokers down", false)
		exp := newExporter(&fakeProducer{event: ev}, "t")
		assert.ErrorIs(t, exp.Export(context.Background(), xexport.Record{}), ErrUnexpectedEvent)
	})

	t.Run("context cancelled before report", func(t *testing.T) {
		t.Parallel()
		exp := newExporter(&fakeProducer{hold: true}, "t")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, exp.Export(ctx, xexport.Record{}), context.DeadlineExceeded)
	})
}

// =============================================================================
// 关闭
// =============================================================================

func TestExporter_Close(t *testing.T) {
	t.Parallel()

	fp := &fakeProducer{}
	exp := newExporter(fp, "t", WithFlushTimeout(2*time.Second))

	require.NoError(t, exp.Close())
	assert.Equal(t, 2000, fp.flushTimeout)
	assert.True(t, fp.closed)

	assert.ErrorIs(t, exp.Close(), ErrClosed)
	assert.ErrorIs(t, exp.Export(context.Background(), xexport.Record{}), ErrClosed)
}

func TestExporter_CloseFlushTimeout(t *testing.T) {
	t.Parallel()

	fp := &fakeProducer{remaining: 3}
	exp := newExporter(fp, "t")

	err := exp.Close()
	require.ErrorIs(t, err, ErrFlushTimeout)
	assert.Contains(t, err.Error(), "3 messages")
	assert.True(t, fp.closed)
	assert.Equal(t, int(DefaultFlushTimeout.Milliseconds()), fp.flushTimeout)
}
