package xmeasure

import (
	"context"
	"reflect"
)

// Sink 测量结果的消费方（控制台、文件、遥测、消息队列等）。
//
// 对格式正确的输入不得 panic；Pipeline 不会捕获 Sink 的 panic。
type Sink interface {
	LogMeasurement(ctx context.Context, r Result, loc Localization, ts TimestampPolicy)
}

type funcSink struct {
	fn func(ctx context.Context, r Result, loc Localization, ts TimestampPolicy)
}

func (s *funcSink) LogMeasurement(ctx context.Context, r Result, loc Localization, ts TimestampPolicy) {
	s.fn(ctx, r, loc, ts)
}

// SinkFunc 把函数包装为 Sink。每次调用返回一个新的 Sink 实例，注册去重按实例判断。
func SinkFunc(fn func(ctx context.Context, r Result, loc Localization, ts TimestampPolicy)) Sink {
	if fn == nil {
		return nil
	}
	return &funcSink{fn: fn}
}

// isNilSink 接口本身为 nil，或装着 nil 指针
func isNilSink(s Sink) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// sameSink 按实例判断。不可比较的动态类型（如含切片字段的值类型）视为不同实例，
// 避免接口比较时 panic。
func sameSink(a, b Sink) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
