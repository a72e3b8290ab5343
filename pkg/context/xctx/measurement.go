package xctx

import "context"

// KeyMeasurement 测量名称的日志属性 key
const KeyMeasurement = "measurement"

const keyMeasurement = contextKey("xctx:measurement")

// WithMeasurement 将当前测量名称注入 context。
//
// 异步测量入口在启动工作单元前调用，使工作单元内部的日志自动携带测量名称。
// 空名称同样会被写入，用于覆盖外层测量。
func WithMeasurement(ctx context.Context, name string) (context.Context, error) {
	return withString(ctx, keyMeasurement, name)
}

// Measurement 从 context 提取测量名称
func Measurement(ctx context.Context) string { return stringValue(ctx, keyMeasurement) }
