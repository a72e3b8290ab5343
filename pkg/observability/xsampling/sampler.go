package xsampling

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
)

// Sampler 采样策略接口，返回 true 表示应该采样。
type Sampler interface {
	ShouldSample(ctx context.Context) bool
}

// ResettableSampler 可重置状态的采样器
type ResettableSampler interface {
	Sampler
	Reset()
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return ErrInvalidRate
	}
	return nil
}

const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

// randomFloat64 返回 [0.0, 1.0) 的随机数。
//
// crypto/rand 失败表示系统熵源不可用，直接 panic。
func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("xsampling: crypto/rand.Read failed: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}
