package xexport

import (
	"time"

	"github.com/omeyang/xmeasure/pkg/observability/xsampling"
)

// Option Sink 选项
type Option func(*options)

type options struct {
	attempts uint
	delay    time.Duration

	breakerName     string
	breakerFailures uint32
	breakerTimeout  time.Duration

	workers int
	queue   int

	sampler xsampling.Sampler
	onError func(error)
	timeout time.Duration
	newID   func() string
}

// WithRetry 失败后按固定间隔重试，attempts 含首次尝试。attempts <= 1 不重试。
func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *options) {
		if attempts < 1 {
			attempts = 1
		}
		o.attempts = uint(attempts)
		o.delay = max(delay, 0)
	}
}

// WithBreaker 连续失败 failures 次后打开熔断，timeout 后进入半开。failures 为 0 时不启用。
func WithBreaker(name string, failures uint32, timeout time.Duration) Option {
	return func(o *options) {
		o.breakerName = name
		o.breakerFailures = failures
		o.breakerTimeout = timeout
	}
}

// WithAsync 经 worker pool 异步投递
func WithAsync(workers, queue int) Option {
	return func(o *options) {
		o.workers = workers
		o.queue = queue
	}
}

// WithSampler 采样器，未采中的结果不构造记录
func WithSampler(s xsampling.Sampler) Option {
	return func(o *options) { o.sampler = s }
}

// WithOnError 投递失败回调。nil 被忽略。
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onError = fn
		}
	}
}

// WithTimeout 单次 Export 超时，<= 0 表示不限制
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithIDFunc 替换记录 ID 生成函数，默认 uuid.NewString
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
