package xlog

// SetNewBuilderForTest 替换默认 Logger 的构建器工厂，返回恢复函数。
func SetNewBuilderForTest(fn func() *Builder) func() {
	old := newBuilder
	newBuilder = fn
	return func() { newBuilder = old }
}

// ErrorCount 返回内部错误计数
func ErrorCount(l Logger) uint64 {
	if xl, ok := l.(*xlogger); ok {
		return xl.errorCount.Load()
	}
	return 0
}
