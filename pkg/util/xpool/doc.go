// Package xpool 提供带界队列的泛型 worker pool。
//
// xexport 的异步导出模式用它把测量记录从调用方 goroutine 转移到后台：
// 调用方只做一次非阻塞入队，队列满时丢弃并返回 [ErrQueueFull]，
// 测量调用点的延迟不受下游存储影响。
//
// Close 会拒绝新任务并等待队列中已有任务处理完毕。
package xpool
