package xpulsar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

// 消息属性
const (
	PropertyLevel   = "xmeasure-level"
	PropertyTraceID = "trace-id"
	PropertyPrefix  = "xmeasure-prefix"
)

// sender 导出器依赖的最小接口，pulsar.Producer 满足
type sender interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Flush() error
	Close()
}

var _ sender = (pulsar.Producer)(nil)

// Option 导出器选项
type Option func(*pulsar.ProducerOptions)

// WithProducerName producer 名称
func WithProducerName(name string) Option {
	return func(o *pulsar.ProducerOptions) { o.Name = name }
}

// WithCompression 压缩算法
func WithCompression(t pulsar.CompressionType) Option {
	return func(o *pulsar.ProducerOptions) { o.CompressionType = t }
}

// Exporter Pulsar 导出器，并发安全
type Exporter struct {
	producer sender
	topic    string
	closed   atomic.Bool

	sent   atomic.Int64
	failed atomic.Int64
}

var _ xexport.Exporter = (*Exporter)(nil)

// New 在 client 上创建 producer
func New(client pulsar.Client, topic string, opts ...Option) (*Exporter, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	po := pulsar.ProducerOptions{Topic: topic}
	for _, opt := range opts {
		if opt != nil {
			opt(&po)
		}
	}
	p, err := client.CreateProducer(po)
	if err != nil {
		return nil, fmt.Errorf("xpulsar: create producer for %s: %w", topic, err)
	}
	return newExporter(p, topic), nil
}

func newExporter(p sender, topic string) *Exporter {
	return &Exporter{producer: p, topic: topic}
}

// Export 实现 xexport.Exporter
func (e *Exporter) Export(ctx context.Context, rec xexport.Record) error {
	if e.closed.Load() {
		return ErrClosed
	}
	line, err := xjson.Line(rec)
	if err != nil {
		return err
	}

	props := map[string]string{
		PropertyLevel:  rec.Level,
		PropertyPrefix: rec.Prefix,
	}
	if rec.TraceID != "" {
		props[PropertyTraceID] = rec.TraceID
	}

	msg := &pulsar.ProducerMessage{
		Payload:    line[:len(line)-1],
		Key:        rec.Name,
		Properties: props,
		EventTime:  rec.Timestamp,
	}
	if _, err := e.producer.Send(ctx, msg); err != nil {
		e.failed.Add(1)
		return fmt.Errorf("xpulsar: send to %s: %w", e.topic, err)
	}
	e.sent.Add(1)
	return nil
}

// Stats 成功与失败的发送次数
func (e *Exporter) Stats() (sent, failed int64) {
	return e.sent.Load(), e.failed.Load()
}

// Close Flush 后关闭 producer。重复调用返回 ErrClosed。
func (e *Exporter) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	flushErr := e.producer.Flush()
	e.producer.Close()
	if flushErr != nil {
		return errors.Join(fmt.Errorf("xpulsar: flush %s", e.topic), flushErr)
	}
	return nil
}
