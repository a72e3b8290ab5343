package xmeasure

import "errors"

var (
	// ErrNilWork 工作单元为 nil
	ErrNilWork = errors.New("xmeasure: work is nil")

	// ErrNilContext context 为 nil
	ErrNilContext = errors.New("xmeasure: nil context")

	// ErrUnknownLocalization 配置中的本地化名称无法识别
	ErrUnknownLocalization = errors.New("xmeasure: unknown localization")
)
