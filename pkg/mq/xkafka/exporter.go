package xkafka

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

// 请求头
const (
	HeaderContentType = "content-type"
	HeaderLevel       = "xmeasure-level"
	HeaderTraceID     = "trace-id"

	contentTypeJSON = "application/json"

	// DefaultFlushTimeout Close 时等待队列清空的默认时长
	DefaultFlushTimeout = 10 * time.Second
)

// producer 导出器依赖的最小接口，*kafka.Producer 满足
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

var _ producer = (*kafka.Producer)(nil)

// Option 导出器选项
type Option func(*Exporter)

// WithFlushTimeout Close 时的 Flush 超时
func WithFlushTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.flushTimeout = d
		}
	}
}

// Exporter Kafka 导出器，并发安全
type Exporter struct {
	producer     producer
	topic        string
	flushTimeout time.Duration
	closed       atomic.Bool

	produced atomic.Int64
	bytes    atomic.Int64
	failed   atomic.Int64
}

var _ xexport.Exporter = (*Exporter)(nil)

// New 按配置创建 producer 与导出器，Close 时一并关闭 producer
func New(config *kafka.ConfigMap, topic string, opts ...Option) (*Exporter, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	p, err := kafka.NewProducer(config)
	if err != nil {
		return nil, fmt.Errorf("xkafka: create producer: %w", err)
	}
	return newExporter(p, topic, opts...), nil
}

func newExporter(p producer, topic string, opts ...Option) *Exporter {
	e := &Exporter{producer: p, topic: topic, flushTimeout: DefaultFlushTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Export 实现 xexport.Exporter，等待投递报告
func (e *Exporter) Export(ctx context.Context, rec xexport.Record) error {
	if e.closed.Load() {
		return ErrClosed
	}

	msg, err := e.message(rec)
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	if err := e.producer.Produce(msg, delivery); err != nil {
		e.failed.Add(1)
		return fmt.Errorf("xkafka: produce to %s: %w", e.topic, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-delivery:
		m, ok := ev.(*kafka.Message)
		if !ok {
			e.failed.Add(1)
			return fmt.Errorf("%w: %v", ErrUnexpectedEvent, ev)
		}
		if m.TopicPartition.Error != nil {
			e.failed.Add(1)
			return fmt.Errorf("xkafka: delivery to %s: %w", e.topic, m.TopicPartition.Error)
		}
	}

	e.produced.Add(1)
	e.bytes.Add(int64(len(msg.Value)))
	return nil
}

func (e *Exporter) message(rec xexport.Record) (*kafka.Message, error) {
	line, err := xjson.Line(rec)
	if err != nil {
		return nil, err
	}

	headers := []kafka.Header{
		{Key: HeaderContentType, Value: []byte(contentTypeJSON)},
		{Key: HeaderLevel, Value: []byte(rec.Level)},
	}
	if rec.TraceID != "" {
		headers = append(headers, kafka.Header{Key: HeaderTraceID, Value: []byte(rec.TraceID)})
	}

	topic := e.topic
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(rec.Name),
		Value:          line[:len(line)-1],
		Headers:        headers,
		Timestamp:      rec.Timestamp,
	}, nil
}

// Stats 发送统计：成功条数、成功字节数、失败条数
func (e *Exporter) Stats() (produced, bytes, failed int64) {
	return e.produced.Load(), e.bytes.Load(), e.failed.Load()
}

// Close Flush 后关闭 producer。重复调用返回 ErrClosed。
func (e *Exporter) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	remaining := e.producer.Flush(int(e.flushTimeout.Milliseconds()))
	e.producer.Close()
	if remaining > 0 {
		return fmt.Errorf("%w: %d messages still in queue", ErrFlushTimeout, remaining)
	}
	return nil
}
