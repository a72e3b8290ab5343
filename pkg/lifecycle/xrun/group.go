package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xmeasure/pkg/observability/xlog"
)

// Service 阻塞运行直到完成、出错或 ctx 取消
type Service func(ctx context.Context) error

// Group 管理一组协同退出的服务。
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("worker"))
//	g.Go("consumer", consume)
//	g.Go("flusher", xrun.Ticker(time.Second, false, flush))
//	err := g.Wait()
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group，返回的 context 在任一服务出错或 Cancel 时取消。
// ctx 为 nil 时使用 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{eg: eg, ctx: egCtx, causeCtx: causeCtx, cancel: cancel, opts: o}, egCtx
}

// Go 启动一个具名服务，非 Canceled 错误记 Warn 日志
func (g *Group) Go(name string, fn Service) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		attrs := []slog.Attr{slog.String("group", g.opts.name), slog.String("service", name)}
		xlog.Debug(g.ctx, "service starting", attrs...)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			xlog.Warn(g.ctx, "service exited with error", append(attrs, xlog.Err(err))...)
		} else {
			xlog.Debug(g.ctx, "service stopped", attrs...)
		}
		return err
	})
}

// Wait 等待全部服务返回。
//
// 返回第一个非 nil 错误。Group 被 Cancel(cause) 或父 context 取消时，
// 服务返回的 context.Canceled 被替换为 cause（cause 为空或就是 Canceled 时返回 nil）。
// 服务自身返回的 Canceled 原样返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	cancelled := g.causeCtx.Err() != nil
	if err != nil && !(errors.Is(err, context.Canceled) && cancelled) {
		return err
	}
	if cancelled {
		if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
	}
	return nil
}

// Cancel 以 cause 取消全部服务，Wait 返回该 cause
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context Group 的 context
func (g *Group) Context() context.Context {
	return g.ctx
}

// errDone 全部服务返回后结束信号监听，不作为错误上报
var errDone = errors.New("xrun: services done")

// Run 运行服务并监听 DefaultSignals，等价于 RunWithOptions(ctx, nil, services...)
func Run(ctx context.Context, services ...Service) error {
	return RunWithOptions(ctx, nil, services...)
}

// RunWithOptions 运行服务直到全部返回、任一出错或收到信号。
//
// 收到信号时返回 *SignalError。全部服务正常返回时返回 nil。
func RunWithOptions(ctx context.Context, opts []Option, services ...Service) error {
	g, _ := NewGroup(ctx, opts...)

	var wg sync.WaitGroup
	for i, svc := range services {
		wg.Add(1)
		g.Go(serviceName(i), func(ctx context.Context) error {
			defer wg.Done()
			if svc == nil {
				return ErrNilFunc
			}
			return svc(ctx)
		})
	}

	if !g.opts.noSignals {
		signals := g.opts.signals
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		g.eg.Go(func() error {
			return g.watchSignals(signals, done)
		})
	}

	err := g.Wait()
	if errors.Is(err, errDone) {
		return nil
	}
	return err
}

// watchSignals 收到信号时以 SignalError 取消 Group；服务全部返回后以 errDone 退出
func (g *Group) watchSignals(signals []os.Signal, done <-chan struct{}) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testSigChan(g.ctx):
	case sig = <-sigCh:
	case <-done:
		g.cancel(errDone)
		return nil
	case <-g.ctx.Done():
		return g.ctx.Err()
	}

	xlog.Info(g.ctx, "received signal",
		slog.String("group", g.opts.name),
		slog.String("signal", sig.String()),
	)
	g.cancel(&SignalError{Signal: sig})
	return nil
}

func serviceName(i int) string {
	return "service-" + strconv.Itoa(i)
}
