package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xmeasure/pkg/lifecycle/xrun"
	"github.com/omeyang/xmeasure/pkg/observability/xconsole"
	"github.com/omeyang/xmeasure/pkg/observability/xexport"
	"github.com/omeyang/xmeasure/pkg/observability/xfilesink"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xlogsink"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
	"github.com/omeyang/xmeasure/pkg/observability/xrotate"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

type runOptions struct {
	workers     int
	iterations  int
	threshold   time.Duration
	sinks       []string
	file        string
	scheme      string
	noColor     bool
	trackMemory *bool
	watch       bool
	async       bool
	every       time.Duration
	cron        string
}

// errWorkload 示例工作负载的预期失败
var errWorkload = errors.New("workload failed")

// summary 按分级统计结果
type summary struct {
	mu       sync.Mutex
	Levels   map[string]int `json:"levels"`
	Failures  int            `json:"failures"`
	Total     int            `json:"total"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

func (s *summary) observe(_ context.Context, r xmeasure.Result, _ xmeasure.Localization, _ xmeasure.TimestampPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Levels[r.Level().String()]++
	s.Total++
	s.ElapsedMs += r.ElapsedMs()
}

// totalLine 汇总行，如 "[METRIKA] Total duration: 812 ms"
func (s *summary) totalLine(loc xmeasure.Localization) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("[%s] %s: %d %s", loc.Prefix, loc.TotalDuration, s.ElapsedMs, loc.Milliseconds)
}

func (s *summary) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures++
}

// preparePipeline 加载配置、日志与输出端，返回的 cleanup 先关闭输出端再关闭日志
func preparePipeline(cmd *cli.Command, o runOptions, out io.Writer) (_ *xmeasure.Pipeline, _ func() error, err error) {
	cfg, xc, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	cleanupLog, err := setupLogger(cmd, cfg.Log, out)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{cleanupLog}
	release := func() error {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = errors.Join(errs, closers[i]())
		}
		return errs
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, release())
		}
	}()

	p := xmeasure.New()
	if xc != nil {
		var bindOpts []xmeasure.BindOption
		if o.watch {
			bindOpts = append(bindOpts, xmeasure.WithWatch())
		}
		stop, err := xmeasure.BindConfig(p, xc, "measure", bindOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("apply measure config: %w", err)
		}
		closers = append(closers, stop)
	}
	if o.trackMemory != nil {
		p.ConfigureMemoryTracking(*o.trackMemory)
	}

	sinkClosers, err := registerSinks(p, cfg.Sinks, o, out)
	if err != nil {
		return nil, nil, err
	}
	// registerSinks 按"先排空再关闭"排序，逆序追加后清理时仍按原序执行
	for i := len(sinkClosers) - 1; i >= 0; i-- {
		closers = append(closers, sinkClosers[i])
	}
	return p, release, nil
}

func cmdRun(ctx context.Context, cmd *cli.Command, o runOptions, out io.Writer) (err error) {
	p, cleanup, err := preparePipeline(cmd, o, out)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, cleanup()) }()

	sum := &summary{Levels: make(map[string]int)}
	p.Register(xmeasure.SinkFunc(sum.observe))

	var callOpts []xmeasure.CallOption
	if o.threshold > 0 {
		callOpts = append(callOpts, xmeasure.WithThresholdDuration(o.threshold))
	}

	xlog.Info(ctx, "running workloads",
		slog.Int("workers", o.workers), slog.Int("iterations", o.iterations),
		slog.Bool("async", o.async), xlog.Duration(o.every))

	batch := func(ctx context.Context) error {
		return runBatch(ctx, p, o, sum, callOpts)
	}
	// 重复运行时每轮批处理本身也作为一次测量分发
	service := xrun.Service(batch)
	switch {
	case o.every > 0:
		service = xrun.Ticker(o.every, true, xrun.Measured(p, "batch", batch))
	case o.cron != "":
		service, err = xrun.Cron(o.cron, xrun.Measured(p, "batch", batch))
		if err != nil {
			return &usageError{msg: err.Error()}
		}
	}
	// 信号或调用方结束 context 视为正常停止，仍输出汇总
	if err := xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithName("xmeasurectl")}, service); err != nil &&
		ctx.Err() == nil && !errors.Is(err, xrun.ErrSignal) {
		return err
	}

	s, err := xjson.PrettyE(sum)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n%s\n", s, sum.totalLine(p.Defaults().Localization))
	return err
}

// runBatch 并发运行一轮工作负载，预期失败计入汇总而不中断
func runBatch(ctx context.Context, p *xmeasure.Pipeline, o runOptions, sum *summary, callOpts []xmeasure.CallOption) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range o.iterations {
		g.Go(func() error {
			w := workloadFor(i)
			var err error
			if o.async {
				_, err = xmeasure.MeasureAsync(gctx, p, w.name, func(ctx context.Context) (int, error) {
					return w.run(ctx)
				}, callOpts...)
			} else {
				_, err = xmeasure.Measure(gctx, p, w.name, func() (int, error) {
					return w.run(gctx)
				}, callOpts...)
			}
			if errors.Is(err, errWorkload) {
				sum.fail()
				xlog.Warn(gctx, "workload failed", slog.String("name", w.name), xlog.Err(err))
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// registerSinks 命令行 --sink 优先，否则按配置文件启用
func registerSinks(p *xmeasure.Pipeline, cfg sinksConfig, o runOptions, out io.Writer) ([]func() error, error) {
	enabled := map[string]bool{
		"console": cfg.Console.Enabled,
		"log":     cfg.Log.Enabled,
		"file":    cfg.File.Enabled,
	}
	if len(o.sinks) > 0 {
		enabled = make(map[string]bool)
		for _, s := range o.sinks {
			name := strings.ToLower(strings.TrimSpace(s))
			if name != "console" && name != "log" && name != "file" {
				return nil, &usageError{msg: fmt.Sprintf("未知输出端 %q", s)}
			}
			enabled[name] = true
		}
	}

	var closers []func() error
	if enabled["console"] {
		schemeName := cfg.Console.Scheme
		if o.scheme != "" {
			schemeName = o.scheme
		}
		scheme := xconsole.SchemeDefault
		if schemeName != "" {
			s, ok := xconsole.LookupScheme(schemeName)
			if !ok {
				return nil, &usageError{msg: fmt.Sprintf("未知配色方案 %q，可选 %s", schemeName, strings.Join(xconsole.SchemeNames(), "/"))}
			}
			scheme = s
		}
		opts := []xconsole.Option{xconsole.WithWriter(out), xconsole.WithScheme(scheme)}
		if cfg.Console.Colors != nil {
			opts = append(opts, xconsole.WithColors(*cfg.Console.Colors))
		}
		if o.noColor {
			opts = append(opts, xconsole.WithColors(false))
		}
		p.Register(xconsole.New(opts...))
	}
	if enabled["log"] {
		p.Register(xlogsink.New())
	}
	if enabled["file"] {
		path := cfg.File.Path
		if o.file != "" {
			path = o.file
		}
		var rotateOpts []xrotate.Option
		if cfg.File.MaxSizeMB > 0 {
			rotateOpts = append(rotateOpts, xrotate.WithMaxSize(cfg.File.MaxSizeMB))
		}
		exp, err := xfilesink.New(path, rotateOpts...)
		if err != nil {
			return nil, err
		}
		sink, err := xexport.NewSink(exp, xexport.WithAsync(1, 256))
		if err != nil {
			return nil, errors.Join(err, exp.Close())
		}
		p.Register(sink)
		// sink 先排空再关闭文件
		closers = append(closers, sink.Close, exp.Close)
	}
	return closers, nil
}

// workload 示例工作负载
type workload struct {
	name  string
	sleep time.Duration
	alloc int
	fail  bool
}

// workloadFor 按序号确定性地生成工作负载
func workloadFor(i int) workload {
	kinds := []string{"parse", "fetch", "render", "index"}
	w := workload{
		name:  fmt.Sprintf("%s-%02d", kinds[i%len(kinds)], i),
		sleep: time.Duration(20+(i*37)%230) * time.Millisecond,
	}
	if i%len(kinds) == 3 {
		w.alloc = 8 << 20
	}
	if i > 0 && i%7 == 0 {
		w.fail = true
	}
	return w
}

func (w workload) run(ctx context.Context) (int, error) {
	var buf []byte
	if w.alloc > 0 {
		buf = make([]byte, w.alloc)
		for i := 0; i < len(buf); i += 4096 {
			buf[i] = byte(i)
		}
	}

	t := time.NewTimer(w.sleep)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-t.C:
	}

	if w.fail {
		return 0, fmt.Errorf("%s: %w", w.name, errWorkload)
	}
	return len(buf), nil
}
