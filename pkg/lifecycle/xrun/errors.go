package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 因收到系统信号而终止，使用 errors.Is 判断
	ErrSignal = errors.New("received signal")

	// ErrInvalidInterval Ticker 间隔必须为正数
	ErrInvalidInterval = errors.New("xrun: interval must be positive")

	// ErrInvalidSchedule cron 表达式无效
	ErrInvalidSchedule = errors.New("xrun: invalid cron schedule")

	// ErrNilFunc 服务函数为 nil
	ErrNilFunc = errors.New("xrun: nil function")

	// ErrNilServer HTTPServer 的 server 为 nil
	ErrNilServer = errors.New("xrun: nil server")
)

// SignalError 触发终止的信号，Run 在信号退出时返回
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 使 errors.Is(err, ErrSignal) 成立
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}
