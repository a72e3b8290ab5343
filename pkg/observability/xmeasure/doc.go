// Package xmeasure 调用点级别的耗时与内存测量。
//
// 把任意工作单元包装起来：测量墙钟耗时，可选地测量内存与 GC 增量，
// 按阈值分级，然后把一条 [Result] 分发给注册的 [Sink] 以及可选的直接日志通道。
// 每次调用只产生一条结果，分发后即丢弃，不做聚合与历史存储。
//
// # 四种调用形态
//
//	v, err := xmeasure.Measure(ctx, p, "load-users", func() ([]User, error) { ... })
//	err := xmeasure.Run(ctx, p, "warm-cache", func() error { ... })
//	v, err := xmeasure.MeasureAsync(ctx, p, "fetch", func(ctx context.Context) (Resp, error) { ... })
//	err := xmeasure.RunAsync(ctx, p, "flush", func(ctx context.Context) error { ... })
//
// p 为 nil 时使用全局默认 [Pipeline]（见 [Default]）。
// 工作单元返回的错误原样透传：不构造结果，不调用任何 Sink。
//
// # 单次调用覆盖
//
// [WithThreshold]、[WithLogger]、[WithLocalization]、[WithTimestampPolicy]、
// [WithTrackMemory] 覆盖 Pipeline 的默认值。未设置的选项回落到默认值；
// 显式的 WithTrackMemory(false) 优先于默认的 true。
//
// # 分发规则
//
//   - 直接日志：提供了 WithLogger 时必定输出一条，超阈值为 Warn，否则为 Info，
//     与 Sink 注册表是否为空无关
//   - Sink 扇出：注册表为空时直接返回；否则按注册顺序逐个调用，
//     传入生效的本地化表与时间戳策略
//   - Sink 的 panic 不会被捕获
//
// # 并发
//
// Pipeline 的配置保存在不可变快照中，写操作在互斥锁下 copy-on-write 后原子替换，
// 测量路径只做一次 atomic.Load。测量过程中并发修改配置是安全的，
// 每次调用看到的是修改前或修改后的完整配置。
package xmeasure
