package xrun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// DefaultSignals SIGHUP、SIGINT、SIGTERM、SIGQUIT，每次返回新切片
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// testSigChanKey 测试通过 context 注入信号，避免向进程发送真实信号
type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}

// Ticker 每隔 interval 调用 fn，fn 出错时停止并返回该错误。
// immediate 为 true 时启动即调用一次（ctx 已取消则不调用）。
func Ticker(interval time.Duration, immediate bool, fn Service) Service {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}
		if immediate {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// cronParser 五段标准格式，可选秒字段，支持 @every/@hourly 等描述符
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Cron 按 cron 表达式调用 fn，fn 出错时停止并返回该错误。
// 表达式无效时立即返回 ErrInvalidSchedule。
func Cron(spec string, fn Service) (Service, error) {
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	if fn == nil {
		return nil, ErrNilFunc
	}
	return func(ctx context.Context) error {
		for {
			now := time.Now()
			timer := time.NewTimer(sched.Next(now).Sub(now))
			select {
			case <-timer.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}, nil
}

// Measured 每次调用 fn 都经 p 测量，名称为 name。
//
// fn 出错时不分发，错误原样返回。p 为 nil 时使用全局 Pipeline。
func Measured(p *xmeasure.Pipeline, name string, fn Service, opts ...xmeasure.CallOption) Service {
	return func(ctx context.Context) error {
		if fn == nil {
			return ErrNilFunc
		}
		return xmeasure.RunAsync(ctx, p, name, func(ctx context.Context) error {
			return fn(ctx)
		}, opts...)
	}
}

// HTTPServerInterface HTTPServer 需要的最小接口，*http.Server 满足
type HTTPServerInterface interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServer 把 server 包装为服务：ctx 取消时 Shutdown，等待最长 shutdownTimeout。
// shutdownTimeout <= 0 表示等待全部在途请求完成。
func HTTPServer(server HTTPServerInterface, shutdownTimeout time.Duration) Service {
	return func(ctx context.Context) error {
		if server == nil {
			return ErrNilServer
		}
		shutdownErr := make(chan error, 1)
		listenDone := make(chan struct{})

		go func() {
			select {
			case <-ctx.Done():
				sctx := context.Background()
				if shutdownTimeout > 0 {
					var cancel context.CancelFunc
					sctx, cancel = context.WithTimeout(sctx, shutdownTimeout)
					defer cancel()
				}
				shutdownErr <- server.Shutdown(sctx)
			case <-listenDone:
			}
		}()

		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			close(listenDone)
			return err
		}
		select {
		case e := <-shutdownErr:
			return e
		case <-ctx.Done():
			return <-shutdownErr
		default:
			// 外部直接 Shutdown，ctx 未取消
			close(listenDone)
			return nil
		}
	}
}
