// Package xrun 提供基于 errgroup + context 的进程生命周期管理。
//
// # 核心概念
//
// 任一服务返回错误或收到终止信号时 context 被取消，其余服务监听 ctx.Done() 退出。
// Run 在全部服务返回后结束，信号监听不会阻止进程退出，
// 因此一次性批处理与常驻服务可以用同一入口运行。
//
//	err := xrun.Run(ctx,
//	    xrun.HTTPServer(srv, 10*time.Second),
//	    xrun.Ticker(time.Minute, true, xrun.Measured(p, "reindex", reindex)),
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    // 信号退出
//	}
//
// # 测量
//
// Measured 把服务函数的每次调用交给 xmeasure 测量，
// 与 Ticker 组合即得到周期任务的耗时记录。
package xrun
