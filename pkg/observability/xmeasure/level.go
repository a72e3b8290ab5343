package xmeasure

import "fmt"

// Level 测量结果分级
type Level uint8

const (
	// LevelFast 耗时 <= 500ms
	LevelFast Level = iota
	// LevelNormal 耗时 > 500ms
	LevelNormal
	// LevelSlow 耗时 > 1000ms
	LevelSlow
	// LevelThresholdExceeded 超过调用方设定的阈值，优先级最高
	LevelThresholdExceeded
)

const (
	normalAfterMs = 500
	slowAfterMs   = 1000
)

func (l Level) String() string {
	switch l {
	case LevelFast:
		return "fast"
	case LevelNormal:
		return "normal"
	case LevelSlow:
		return "slow"
	case LevelThresholdExceeded:
		return "threshold_exceeded"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
