// Package xexport 把测量结果转换为可持久化的 [Record]，交给 [Exporter] 投递到外部系统。
//
// [Sink] 把任意 Exporter 适配为 xmeasure.Sink，并负责投递相关的横切关注点：
//
//   - 采样：WithSampler，采样器看到的 context 携带测量名称（xctx.Measurement）
//   - 超时：WithTimeout，单次 Export 的超时
//   - 熔断：WithBreaker，连续失败达到阈值后短路，避免拖慢调用方
//   - 重试：WithRetry，固定间隔重试，熔断打开时不再重试
//   - 异步：WithAsync，经 worker pool 投递，调用方只做一次非阻塞入队
//
// 投递失败不会从 LogMeasurement 返回，而是交给 WithOnError 回调
// （默认输出一条 xlog Warn）。使用 WithAsync 时须调用 Close 等待队列排空。
//
// 具体的 Exporter 见 xfilesink、xredis、xmongo、xclickhouse、xkafka、xpulsar。
package xexport
