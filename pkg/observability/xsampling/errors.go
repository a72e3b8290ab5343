package xsampling

import "errors"

var (
	// ErrInvalidRate 采样比率不在 [0.0, 1.0] 范围内
	ErrInvalidRate = errors.New("xsampling: rate must be in [0.0, 1.0]")

	// ErrNilKeyFunc KeyBasedSampler 的 keyFunc 为 nil
	ErrNilKeyFunc = errors.New("xsampling: keyFunc must not be nil")

	// ErrInvalidCount CountSampler 的采样间隔必须 >= 1
	ErrInvalidCount = errors.New("xsampling: count n must be >= 1")
)
