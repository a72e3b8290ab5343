package xexport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	retry "github.com/avast/retry-go/v5"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
	"github.com/omeyang/xmeasure/pkg/util/xpool"
)

// Stats 投递计数
type Stats struct {
	Exported int64
	Failed   int64
	Dropped  int64
	Sampled  int64
}

type job struct {
	ctx context.Context
	rec Record
}

// Sink 把 Exporter 适配为 xmeasure.Sink
type Sink struct {
	exporter Exporter
	opts     options
	breaker  *gobreaker.CircuitBreaker[any]
	pool     *xpool.Pool[job]

	exported atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64
	sampled  atomic.Int64
}

var _ xmeasure.Sink = (*Sink)(nil)

// NewSink 创建 Sink。启用 WithAsync 时立即启动 worker。
func NewSink(exp Exporter, opts ...Option) (*Sink, error) {
	if exp == nil {
		return nil, ErrNilExporter
	}

	o := options{attempts: 1, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.onError == nil {
		o.onError = func(err error) {
			xlog.Warn(context.Background(), "xexport: export failed", xlog.Err(err))
		}
	}

	s := &Sink{exporter: exp, opts: o}

	if o.breakerFailures > 0 {
		failures := o.breakerFailures
		s.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:    o.breakerName,
			Timeout: o.breakerTimeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
			IsExcluded: func(err error) bool {
				return errors.Is(err, context.Canceled)
			},
		})
	}

	if o.workers > 0 || o.queue > 0 {
		pool, err := xpool.New(o.workers, o.queue, func(j job) { s.deliver(j.ctx, j.rec) },
			xpool.WithName("xexport"))
		if err != nil {
			return nil, err
		}
		s.pool = pool
	}
	return s, nil
}

// LogMeasurement 实现 xmeasure.Sink。错误只会交给 OnError。
func (s *Sink) LogMeasurement(ctx context.Context, r xmeasure.Result, loc xmeasure.Localization, ts xmeasure.TimestampPolicy) {
	if s.opts.sampler != nil {
		sctx := ctx
		if named, err := xctx.WithMeasurement(ctx, r.Name); err == nil {
			sctx = named
		}
		if !s.opts.sampler.ShouldSample(sctx) {
			return
		}
	}
	s.sampled.Add(1)

	rec := newRecord(ctx, s.opts.newID(), r, loc, ts)
	if s.pool == nil {
		s.deliver(ctx, rec)
		return
	}

	// 调用方的取消不影响后台投递，context 中的值（如 trace id）保留
	if err := s.pool.Submit(job{ctx: context.WithoutCancel(ctx), rec: rec}); err != nil {
		s.dropped.Add(1)
		s.opts.onError(fmt.Errorf("%w: %s: %w", ErrDropped, rec.Name, err))
	}
}

func (s *Sink) deliver(ctx context.Context, rec Record) {
	if err := s.export(ctx, rec); err != nil {
		s.failed.Add(1)
		s.opts.onError(fmt.Errorf("%w: %s: %w", ErrExportFailed, rec.Name, err))
		return
	}
	s.exported.Add(1)
}

// export 调用链：重试 → 熔断 → 超时 → Exporter
func (s *Sink) export(ctx context.Context, rec Record) error {
	call := func() error {
		c := ctx
		if s.opts.timeout > 0 {
			var cancel context.CancelFunc
			c, cancel = context.WithTimeout(ctx, s.opts.timeout)
			defer cancel()
		}
		return s.exporter.Export(c, rec)
	}

	if s.breaker != nil {
		inner := call
		call = func() error {
			_, err := s.breaker.Execute(func() (any, error) { return nil, inner() })
			return err
		}
	}

	if s.opts.attempts <= 1 {
		return call()
	}
	return retry.New(
		retry.Context(ctx),
		retry.Attempts(s.opts.attempts),
		retry.Delay(s.opts.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests)
		}),
	).Do(call)
}

// Stats 当前计数
func (s *Sink) Stats() Stats {
	return Stats{
		Exported: s.exported.Load(),
		Failed:   s.failed.Load(),
		Dropped:  s.dropped.Load(),
		Sampled:  s.sampled.Load(),
	}
}

// BreakerState 熔断器状态，未启用时返回 StateClosed
func (s *Sink) BreakerState() gobreaker.State {
	if s.breaker == nil {
		return gobreaker.StateClosed
	}
	return s.breaker.State()
}

// Close 停止接收并等待异步队列排空。同步模式下为空操作。可重复调用。
func (s *Sink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
