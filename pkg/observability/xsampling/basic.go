package xsampling

import (
	"context"
	"sync/atomic"
)

var (
	_ Sampler           = (*alwaysSampler)(nil)
	_ Sampler           = (*neverSampler)(nil)
	_ Sampler           = (*RateSampler)(nil)
	_ ResettableSampler = (*CountSampler)(nil)
)

type alwaysSampler struct{}

func (alwaysSampler) ShouldSample(context.Context) bool { return true }

type neverSampler struct{}

func (neverSampler) ShouldSample(context.Context) bool { return false }

// Always 全采样
func Always() Sampler { return alwaysSampler{} }

// Never 不采样
func Never() Sampler { return neverSampler{} }

// RateSampler 固定比率随机采样
type RateSampler struct {
	rate float64
}

// NewRateSampler 创建固定比率采样器，rate 必须在 [0, 1] 内。
func NewRateSampler(rate float64) (*RateSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &RateSampler{rate: rate}, nil
}

func (s *RateSampler) ShouldSample(context.Context) bool {
	switch {
	case s.rate <= 0:
		return false
	case s.rate >= 1:
		return true
	default:
		return randomFloat64() < s.rate
	}
}

// Rate 返回采样比率
func (s *RateSampler) Rate() float64 { return s.rate }

// CountSampler 每 n 个事件采样 1 个（第 1、n+1、2n+1... 个）。
type CountSampler struct {
	n       uint64
	counter atomic.Uint64
}

// NewCountSampler 创建计数采样器
func NewCountSampler(n int) (*CountSampler, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	return &CountSampler{n: uint64(n)}, nil
}

func (s *CountSampler) ShouldSample(context.Context) bool {
	if s.n == 0 {
		return true
	}
	return (s.counter.Add(1)-1)%s.n == 0
}

// Reset 重置计数器
func (s *CountSampler) Reset() { s.counter.Store(0) }

// N 返回采样间隔
func (s *CountSampler) N() int { return int(s.n) }
