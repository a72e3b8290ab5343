package xredis

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

const (
	// DefaultStream 默认 stream 名
	DefaultStream = "xmeasure:results"

	// DefaultMaxLen 默认近似保留条数
	DefaultMaxLen = 10_000

	// rateKeyPrefix 按测量名限流的键前缀
	rateKeyPrefix = "xmeasure:rate:"
)

// Stream 字段名
const (
	FieldRecord    = "record"
	FieldName      = "name"
	FieldLevel     = "level"
	FieldElapsedMs = "elapsed_ms"
)

// StreamAdder 导出器依赖的最小接口，redis.Client、redis.ClusterClient 与
// redis.UniversalClient 均满足
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

var _ StreamAdder = (redis.UniversalClient)(nil)

// Option 导出器选项
type Option func(*Exporter)

// WithStream 设置 stream 名
func WithStream(name string) Option {
	return func(e *Exporter) { e.stream = name }
}

// WithMaxLen 设置近似保留条数，<= 0 表示不裁剪
func WithMaxLen(n int64) Option {
	return func(e *Exporter) { e.maxLen = n }
}

// WithRateLimit 按测量名限制写入速率，超出配额的记录被丢弃并计入 Throttled。
// limiter 为 nil 或 limit 无效时不限流。
func WithRateLimit(limiter *redis_rate.Limiter, limit redis_rate.Limit) Option {
	return func(e *Exporter) {
		e.limiter = limiter
		e.limit = limit
	}
}

// Exporter Redis Stream 导出器
type Exporter struct {
	client StreamAdder
	stream string
	maxLen int64

	limiter   *redis_rate.Limiter
	limit     redis_rate.Limit
	throttled atomic.Uint64
}

var _ xexport.Exporter = (*Exporter)(nil)

// New 创建导出器。client 的生命周期由调用方管理。
func New(client StreamAdder, opts ...Option) (*Exporter, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	e := &Exporter{client: client, stream: DefaultStream, maxLen: DefaultMaxLen}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.stream == "" {
		return nil, ErrEmptyStream
	}
	if e.limiter != nil && e.limit.IsZero() {
		e.limiter = nil
	}
	return e, nil
}

// Stream 目标 stream 名
func (e *Exporter) Stream() string { return e.stream }

// Throttled 因限流被丢弃的记录数
func (e *Exporter) Throttled() uint64 { return e.throttled.Load() }

// Export 实现 xexport.Exporter
func (e *Exporter) Export(ctx context.Context, rec xexport.Record) error {
	if e.limiter != nil {
		res, err := e.limiter.Allow(ctx, rateKeyPrefix+rec.Name, e.limit)
		if err != nil {
			return fmt.Errorf("xredis: rate limit %s: %w", rec.Name, err)
		}
		if res.Allowed == 0 {
			e.throttled.Add(1)
			return nil
		}
	}

	payload, err := xjson.Line(rec)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: e.stream,
		ID:     "*",
		Values: map[string]any{
			FieldRecord:    string(payload[:len(payload)-1]),
			FieldName:      rec.Name,
			FieldLevel:     rec.Level,
			FieldElapsedMs: rec.ElapsedMs,
		},
	}
	if e.maxLen > 0 {
		args.MaxLen = e.maxLen
		args.Approx = true
	}

	if err := e.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xredis: xadd %s: %w", e.stream, err)
	}
	return nil
}
