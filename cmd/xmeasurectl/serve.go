package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmeasure/pkg/lifecycle/xrun"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
	"github.com/omeyang/xmeasure/pkg/observability/xtrace"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

func createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动 HTTP 服务，按请求测量示例工作负载（GET /work/{i}）",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "127.0.0.1:8080", Usage: "监听地址"},
			&cli.DurationFlag{Name: "threshold", Value: 150 * time.Millisecond, Usage: "告警阈值，0 表示不设置"},
			&cli.DurationFlag{Name: "shutdown-timeout", Value: 10 * time.Second, Usage: "优雅关闭等待时间"},
			&cli.StringSliceFlag{Name: "sink", Usage: "输出端 console/log/file，可重复；未指定时使用配置文件"},
			&cli.StringFlag{Name: "file", Usage: "file 输出端路径"},
			&cli.StringFlag{Name: "scheme", Usage: "控制台配色方案"},
			&cli.BoolFlag{Name: "no-color", Usage: "禁用控制台颜色"},
			&cli.BoolFlag{Name: "track-memory", Usage: "追踪内存，覆盖配置文件"},
			&cli.BoolFlag{Name: "watch", Usage: "监视配置文件变化并热更新管道默认值"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			o := runOptions{
				threshold: cmd.Duration("threshold"),
				sinks:     cmd.StringSlice("sink"),
				file:      cmd.String("file"),
				scheme:    cmd.String("scheme"),
				noColor:   cmd.Bool("no-color"),
				watch:     cmd.Bool("watch"),
			}
			if cmd.IsSet("track-memory") {
				track := cmd.Bool("track-memory")
				o.trackMemory = &track
			}
			if o.threshold < 0 {
				return &usageError{msg: "--threshold 不能为负"}
			}
			return cmdServe(ctx, cmd, o, cmd.String("addr"), cmd.Duration("shutdown-timeout"), stdout)
		},
	}
}

func cmdServe(ctx context.Context, cmd *cli.Command, o runOptions, addr string, shutdown time.Duration, out io.Writer) (err error) {
	p, cleanup, err := preparePipeline(cmd, o, out)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, cleanup()) }()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeHandler(p, o.threshold),
		ReadHeaderTimeout: 5 * time.Second,
	}
	xlog.Info(ctx, "serving", slog.String("addr", addr))

	err = xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithName("xmeasurectl")}, xrun.HTTPServer(srv, shutdown))
	if err != nil && (ctx.Err() != nil || errors.Is(err, xrun.ErrSignal)) {
		xlog.Info(ctx, "shutdown", xlog.Err(err))
		return nil
	}
	return err
}

// newServeHandler 路由外层包裹追踪与测量中间件
func newServeHandler(p *xmeasure.Pipeline, threshold time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /work/{i}", func(w http.ResponseWriter, r *http.Request) {
		i, err := strconv.Atoi(r.PathValue("i"))
		if err != nil || i < 0 {
			http.Error(w, fmt.Sprintf("invalid workload index %q", r.PathValue("i")), http.StatusBadRequest)
			return
		}
		wl := workloadFor(i)
		n, err := wl.run(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		body, err := xjson.Line(map[string]any{
			"name":       wl.name,
			"bytes":      n,
			"trace_id":   xtrace.TraceID(r.Context()),
			"request_id": xtrace.RequestID(r.Context()),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	opts := []xtrace.Option{xtrace.WithMeasure(p)}
	if threshold > 0 {
		opts = append(opts, xtrace.WithCallOptions(xmeasure.WithThresholdDuration(threshold)))
	}
	return xtrace.HTTPMiddleware(opts...)(mux)
}
