package xpool

import "errors"

var (
	// ErrNilHandler handler 为 nil
	ErrNilHandler = errors.New("xpool: handler cannot be nil")

	// ErrPoolStopped pool 已关闭，无法提交任务
	ErrPoolStopped = errors.New("xpool: pool is stopped")

	// ErrQueueFull 任务队列已满，任务被丢弃
	ErrQueueFull = errors.New("xpool: queue is full")

	// ErrInvalidWorkers worker 数量必须 >= 1
	ErrInvalidWorkers = errors.New("xpool: invalid worker count")

	// ErrInvalidQueueSize 队列大小必须 >= 1
	ErrInvalidQueueSize = errors.New("xpool: invalid queue size")
)
