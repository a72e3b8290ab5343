// 手写的 gomock 风格 Sink mock，方法与录制器按 gomock 约定命名，
// 可直接配合 gomock.Controller 使用。

package xmeasure

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockSink Sink 的 mock
type MockSink struct {
	ctrl     *gomock.Controller
	recorder *MockSinkMockRecorder
	isgomock struct{}
}

// MockSinkMockRecorder MockSink 的调用录制器
type MockSinkMockRecorder struct {
	mock *MockSink
}

// NewMockSink 创建 mock
func NewMockSink(ctrl *gomock.Controller) *MockSink {
	mock := &MockSink{ctrl: ctrl}
	mock.recorder = &MockSinkMockRecorder{mock}
	return mock
}

// EXPECT 返回录制器，用于声明预期调用
func (m *MockSink) EXPECT() *MockSinkMockRecorder {
	return m.recorder
}

// LogMeasurement 记录一次调用
func (m *MockSink) LogMeasurement(ctx context.Context, r Result, loc Localization, ts TimestampPolicy) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "LogMeasurement", ctx, r, loc, ts)
}

// LogMeasurement 声明对 LogMeasurement 的预期调用
func (mr *MockSinkMockRecorder) LogMeasurement(ctx, r, loc, ts any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LogMeasurement", reflect.TypeOf((*MockSink)(nil).LogMeasurement), ctx, r, loc, ts)
}
