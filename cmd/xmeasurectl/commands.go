package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmeasure/pkg/observability/xconsole"
	"github.com/omeyang/xmeasure/pkg/observability/xlog"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

// stdout 命令输出目标，测试中替换
var stdout io.Writer = os.Stdout

// usageError 参数错误，退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130) // 第二次信号: 强制退出
	}()
}

// setupLogger 按配置与命令行覆盖构建全局 logger
func setupLogger(cmd *cli.Command, cfg logConfig, w io.Writer) (func() error, error) {
	level, format := cfg.Level, cfg.Format
	if v := cmd.String("log-level"); v != "" {
		level = v
	}
	if v := cmd.String("log-format"); v != "" {
		format = v
	}
	logger, cleanup, err := xlog.New().
		SetOutput(w).
		SetLevelString(level).
		SetFormat(format).
		Build()
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	xlog.SetDefault(logger)
	return cleanup, nil
}

// =============================================================================
// run
// =============================================================================

func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "并发运行示例工作负载",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 4, Usage: "并发数"},
			&cli.IntFlag{Name: "iterations", Aliases: []string{"n"}, Value: 12, Usage: "工作负载总数"},
			&cli.DurationFlag{Name: "threshold", Value: 150 * time.Millisecond, Usage: "告警阈值，0 表示不设置"},
			&cli.StringSliceFlag{Name: "sink", Usage: "输出端 console/log/file，可重复；未指定时使用配置文件"},
			&cli.StringFlag{Name: "file", Usage: "file 输出端路径"},
			&cli.StringFlag{Name: "scheme", Usage: "控制台配色方案"},
			&cli.BoolFlag{Name: "no-color", Usage: "禁用控制台颜色"},
			&cli.BoolFlag{Name: "track-memory", Usage: "追踪内存，覆盖配置文件"},
			&cli.BoolFlag{Name: "watch", Usage: "监视配置文件变化并热更新管道默认值"},
			&cli.BoolFlag{Name: "async", Usage: "使用 MeasureAsync 运行工作负载"},
			&cli.DurationFlag{Name: "every", Usage: "按间隔重复运行直到收到信号，0 表示只运行一次"},
			&cli.StringFlag{Name: "cron", Usage: "按 cron 表达式重复运行，如 \"*/5 * * * *\" 或 \"@every 30s\""},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := runOptionsFrom(cmd)
			if err != nil {
				return err
			}
			return cmdRun(ctx, cmd, opts, stdout)
		},
	}
}

func runOptionsFrom(cmd *cli.Command) (runOptions, error) {
	o := runOptions{
		workers:    cmd.Int("workers"),
		iterations: cmd.Int("iterations"),
		threshold:  cmd.Duration("threshold"),
		sinks:      cmd.StringSlice("sink"),
		file:       cmd.String("file"),
		scheme:     cmd.String("scheme"),
		noColor:    cmd.Bool("no-color"),
		watch:      cmd.Bool("watch"),
		async:      cmd.Bool("async"),
		every:      cmd.Duration("every"),
		cron:       cmd.String("cron"),
	}
	if cmd.IsSet("track-memory") {
		track := cmd.Bool("track-memory")
		o.trackMemory = &track
	}
	if o.workers < 1 {
		return o, &usageError{msg: fmt.Sprintf("--workers 必须 >= 1，得到 %d", o.workers)}
	}
	if o.iterations < 0 {
		return o, &usageError{msg: fmt.Sprintf("--iterations 必须 >= 0，得到 %d", o.iterations)}
	}
	if o.threshold < 0 {
		return o, &usageError{msg: "--threshold 不能为负"}
	}
	if o.every < 0 {
		return o, &usageError{msg: "--every 不能为负"}
	}
	if o.every > 0 && o.cron != "" {
		return o, &usageError{msg: "--every 与 --cron 不能同时使用"}
	}
	return o, nil
}

// =============================================================================
// localizations / schemes
// =============================================================================

func createLocalizationsCommand() *cli.Command {
	return &cli.Command{
		Name:    "localizations",
		Aliases: []string{"loc"},
		Usage:   "列出内置文案",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出完整文案"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdLocalizations(stdout, cmd.Bool("json"))
		},
	}
}

func cmdLocalizations(w io.Writer, asJSON bool) error {
	names := xmeasure.LocalizationNames()
	if asJSON {
		all := make(map[string]xmeasure.Localization, len(names))
		for _, n := range names {
			all[n], _ = xmeasure.LookupLocalization(n)
		}
		s, err := xjson.PrettyE(all)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}
	for _, n := range names {
		loc, _ := xmeasure.LookupLocalization(n)
		if _, err := fmt.Fprintf(w, "%-12s [%s] %s / %s\n", n, loc.Prefix, loc.Duration, loc.DurationHigh); err != nil {
			return err
		}
	}
	return nil
}

func createSchemesCommand() *cli.Command {
	return &cli.Command{
		Name:  "schemes",
		Usage: "列出控制台配色方案，并用示例结果预览",
		Action: func(_ context.Context, _ *cli.Command) error {
			return cmdSchemes(stdout, true)
		},
	}
}

func cmdSchemes(w io.Writer, colors bool) error {
	samples := []xmeasure.Result{
		{Name: "fast", Elapsed: 40 * time.Millisecond},
		{Name: "normal", Elapsed: 700 * time.Millisecond},
		{Name: "slow", Elapsed: 1500 * time.Millisecond},
		{Name: "exceeded", Elapsed: 300 * time.Millisecond, ThresholdMs: 200},
	}
	for _, name := range xconsole.SchemeNames() {
		scheme, _ := xconsole.LookupScheme(name)
		if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
			return err
		}
		sink := xconsole.New(xconsole.WithWriter(w), xconsole.WithScheme(scheme), xconsole.WithColors(colors))
		for _, r := range samples {
			sink.LogMeasurement(context.Background(), r, xmeasure.English, xmeasure.TimestampDisabled)
		}
	}
	return nil
}

// =============================================================================
// timestamp
// =============================================================================

func createTimestampCommand() *cli.Command {
	return &cli.Command{
		Name:    "timestamp",
		Aliases: []string{"ts"},
		Usage:   "渲染时间戳",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pattern", Aliases: []string{"p"}, Usage: "自定义模式，如 yyyy-MM-dd HH:mm:ss.fff"},
			&cli.StringFlag{Name: "at", Usage: "RFC3339 时间，默认当前时间"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			at := time.Now()
			if v := cmd.String("at"); v != "" {
				t, err := time.Parse(time.RFC3339Nano, v)
				if err != nil {
					return &usageError{msg: fmt.Sprintf("--at: %v", err)}
				}
				at = t
			}
			return cmdTimestamp(stdout, at, cmd.String("pattern"))
		},
	}
}

func cmdTimestamp(w io.Writer, at time.Time, pattern string) error {
	if pattern != "" {
		_, err := fmt.Fprintf(w, "%s -> %s (layout %q)\n", pattern,
			xmeasure.TimestampCustom(pattern).Format(at), xmeasure.Layout(pattern))
		return err
	}
	for _, n := range xmeasure.TimestampPresetNames() {
		ts, _ := xmeasure.LookupTimestampPreset(n)
		if _, err := fmt.Fprintf(w, "%-9s %s\n", n, ts.Format(at)); err != nil {
			return err
		}
	}
	return nil
}
