package xsampling

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/omeyang/xmeasure/pkg/context/xctx"
)

// KeyFunc 从 context 提取采样 key。返回空字符串时回退到随机采样。
type KeyFunc func(ctx context.Context) string

// ByMeasurement 以测量名称作为采样 key
func ByMeasurement(ctx context.Context) string { return xctx.Measurement(ctx) }

// ByTraceID 以 trace_id 作为采样 key
func ByTraceID(ctx context.Context) string { return xctx.TraceID(ctx) }

// KeyBasedOption KeyBasedSampler 选项
type KeyBasedOption func(*KeyBasedSampler)

// WithOnEmptyKey 设置空 key 回调，用于发现 context 传播断裂。
//
// 回调不做 recover，应保持轻量。
func WithOnEmptyKey(fn func()) KeyBasedOption {
	return func(s *KeyBasedSampler) {
		if fn != nil {
			s.onEmptyKey = fn
		}
	}
}

// KeyBasedSampler 一致性采样：相同 key 在相同 rate 下总是得到相同决策。
type KeyBasedSampler struct {
	rate       float64
	keyFunc    KeyFunc
	onEmptyKey func()
}

// NewKeyBasedSampler 创建一致性采样器。keyFunc 为 nil 时返回 ErrNilKeyFunc。
func NewKeyBasedSampler(rate float64, keyFunc KeyFunc, opts ...KeyBasedOption) (*KeyBasedSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if keyFunc == nil {
		return nil, ErrNilKeyFunc
	}
	s := &KeyBasedSampler{rate: rate, keyFunc: keyFunc}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *KeyBasedSampler) ShouldSample(ctx context.Context) bool {
	if s.rate <= 0 {
		return false
	}
	if s.rate >= 1 {
		return true
	}

	var key string
	if ctx != nil {
		key = s.keyFunc(ctx)
	}
	if key == "" {
		if s.onEmptyKey != nil {
			s.onEmptyKey()
		}
		return randomFloat64() < s.rate
	}

	// rate < 1 时 normalized == 1.0 不会通过比较
	normalized := float64(xxhash.Sum64String(key)) / float64(math.MaxUint64)
	return normalized < s.rate
}

// Rate 返回采样比率
func (s *KeyBasedSampler) Rate() float64 { return s.rate }

var _ Sampler = (*KeyBasedSampler)(nil)
