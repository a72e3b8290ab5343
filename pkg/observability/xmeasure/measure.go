package xmeasure

import (
	"context"
	"time"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
)

// Measure 同步测量有返回值的工作单元。
//
// work 返回错误时原样返回 (value, err)，不构造结果，不分发。
func Measure[T any](ctx context.Context, p *Pipeline, name string, work func() (T, error), opts ...CallOption) (T, error) {
	if work == nil {
		var zero T
		return zero, ErrNilWork
	}
	return measure(ctx, p, name, opts, work)
}

// Run 同步测量无返回值的工作单元
func Run(ctx context.Context, p *Pipeline, name string, work func() error, opts ...CallOption) error {
	if work == nil {
		return ErrNilWork
	}
	_, err := measure(ctx, p, name, opts, func() (struct{}, error) {
		return struct{}{}, work()
	})
	return err
}

// MeasureAsync 在独立 goroutine 中执行工作单元，调用方等待其完成或 ctx 结束。
//
// work 收到的 context 派生自 ctx 并携带测量名称（xctx.Measurement）。
// ctx 先结束时返回 ctx.Err()，不分发；work 应响应取消，否则其 goroutine
// 会运行到自然结束。work 中的 panic 在调用方 goroutine 上以原值重新抛出。
// 耗时包含等待期间，反映的是调用方观察到的延迟。
func MeasureAsync[T any](ctx context.Context, p *Pipeline, name string, work func(context.Context) (T, error), opts ...CallOption) (T, error) {
	if work == nil {
		var zero T
		return zero, ErrNilWork
	}
	return measure(ctx, p, name, opts, await(ctx, name, work))
}

// RunAsync 异步形态的 Run，语义同 MeasureAsync
func RunAsync(ctx context.Context, p *Pipeline, name string, work func(context.Context) error, opts ...CallOption) error {
	if work == nil {
		return ErrNilWork
	}
	_, err := measure(ctx, p, name, opts, await(ctx, name, func(c context.Context) (struct{}, error) {
		return struct{}{}, work(c)
	}))
	return err
}

// measure 四种形态共用的核心流程，execute 决定工作单元如何执行。
//
// 顺序：begin 快照 → 启动计时 → 执行 → 停止计时 → end 快照 → 分发。
func measure[T any](ctx context.Context, p *Pipeline, name string, opts []CallOption, execute func() (T, error)) (T, error) {
	if ctx == nil {
		var zero T
		return zero, ErrNilContext
	}
	if p == nil {
		p = Default()
	}
	call := newCallConfig(opts)

	var snap *Snapshot
	if call.trackMemory.orElse(p.state.Load().trackMemory) {
		snap = p.tracker.Begin()
	}

	start := time.Now()
	value, err := execute()
	elapsed := time.Since(start)
	if err != nil {
		return value, err
	}

	var memory *MemoryDelta
	if snap != nil {
		p.tracker.End(snap)
		d := snap.Delta()
		memory = &d
	}

	p.dispatch(ctx, Result{
		Name:        name,
		Elapsed:     elapsed,
		ThresholdMs: call.thresholdMs,
		Memory:      memory,
		Timestamp:   p.now(),
	}, call)
	return value, nil
}

type outcome[T any] struct {
	value    T
	err      error
	panicked bool
	panicVal any
}

func (o outcome[T]) unwrap() (T, error) {
	if o.panicked {
		panic(o.panicVal)
	}
	return o.value, o.err
}

// await 返回异步执行策略：工作单元在新 goroutine 中运行，结果经缓冲 channel 回传，
// 调用方放弃等待后 goroutine 也不会阻塞。
func await[T any](ctx context.Context, name string, work func(context.Context) (T, error)) func() (T, error) {
	return func() (T, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		wctx, err := xctx.WithMeasurement(ctx, name)
		if err != nil {
			return zero, err
		}

		done := make(chan outcome[T], 1)
		go func() {
			var o outcome[T]
			defer func() {
				if r := recover(); r != nil {
					o.panicked, o.panicVal = true, r
				}
				done <- o
			}()
			o.value, o.err = work(wctx)
		}()

		select {
		case o := <-done:
			return o.unwrap()
		case <-ctx.Done():
			// 两者同时就绪时以已完成的结果为准
			select {
			case o := <-done:
				return o.unwrap()
			default:
				return zero, ctx.Err()
			}
		}
	}
}
