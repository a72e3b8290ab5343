// Package xmetrics 把测量结果输出到 OpenTelemetry。
//
// [Sink] 实现 xmeasure.Sink，每个结果记录：
//
//   - xmeasure.measurement.total        计数
//   - xmeasure.measurement.duration     耗时直方图（ms）
//   - xmeasure.threshold.exceeded       超阈值计数
//   - xmeasure.memory.delta             内存增量直方图（By），仅追踪内存时
//   - xmeasure.gc.collections           按 gc.generation 分组的 GC 次数
//
// 统一属性：measure.name / measure.level。测量名称基数不可控时，
// 用 WithNameAttribute(false) 去掉 measure.name。
//
// 调用方 context 中存在活跃 span 时追加一个 xmeasure.measurement 事件；
// 设置 WithTracerProvider 后，每次测量还会补记一个覆盖测量窗口的 span。
package xmetrics
