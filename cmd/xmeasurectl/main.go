// xmeasurectl 演示并检查 xmeasure 的测量管道。
//
// 用法:
//
//	xmeasurectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件（yaml/json），读取 measure、log、sinks 节点
//	    --log-level   日志级别 (debug/info/warn/error)
//	    --log-format  日志格式 (text/json)
//
// 命令:
//
//	run            并发运行示例工作负载，输出测量结果与分级汇总
//	serve          HTTP 服务，按请求测量示例工作负载
//	localizations  列出内置文案
//	schemes        列出控制台配色方案
//	timestamp      按预置或自定义模式渲染时间戳
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数错误
//
// 示例:
//
//	xmeasurectl run --workers 4 --iterations 20 --threshold 150ms
//	xmeasurectl -c measure.yaml run --watch --sink console --sink file --file out.jsonl
//	xmeasurectl run --every 30s --sink log
//	xmeasurectl serve --addr 127.0.0.1:8080 --sink console
//	xmeasurectl timestamp --pattern "dd/MM/yyyy HH:mm"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xmeasurectl",
		Usage:   "xmeasure 测量管道演示与检查工具",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（yaml/json）",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别，覆盖配置文件",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 text/json，覆盖配置文件",
			},
		},
		Commands: []*cli.Command{
			createRunCommand(),
			createServeCommand(),
			createLocalizationsCommand(),
			createSchemesCommand(),
			createTimestampCommand(),
		},
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	if err := createApp().Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
