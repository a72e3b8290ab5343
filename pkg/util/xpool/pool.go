package xpool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/omeyang/xmeasure/pkg/observability/xlog"
)

// Pool 泛型 worker pool，创建即启动。
type Pool[T any] struct {
	handler func(T)
	queue   chan T
	opts    options
	wg      sync.WaitGroup

	// mu 保证 Close 关闭 queue 时没有 Submit 正在发送
	mu     sync.RWMutex
	closed bool
}

// New 创建并启动 worker pool。
func New[T any](workers, queueSize int, handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if queueSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueueSize, queueSize)
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Pool[T]{
		handler: handler,
		queue:   make(chan T, queueSize),
		opts:    o,
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p, nil
}

// worker 只从 queue 读取，queue 关闭后退出，保证剩余任务被处理完。
func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

func (p *Pool[T]) run(task T) {
	defer func() {
		if r := recover(); r != nil {
			logger := p.opts.logger
			if logger == nil {
				logger = xlog.Default()
			}
			logger.Error(context.Background(), "xpool: worker panic recovered",
				slog.String("pool", p.opts.name), slog.Any("panic", r))
		}
	}()
	p.handler(task)
}

// Submit 非阻塞提交任务。
func (p *Pool[T]) Submit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close 拒绝新任务，等待剩余任务处理完成。可重复调用。
func (p *Pool[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// Pending 返回队列中等待处理的任务数
func (p *Pool[T]) Pending() int { return len(p.queue) }
