package xrun

import "os"

// Option 配置 Group
type Option func(*groupOptions)

type groupOptions struct {
	name      string
	signals   []os.Signal
	noSignals bool
}

func defaultOptions() *groupOptions {
	return &groupOptions{name: "xrun"}
}

// WithName 日志中标识 Group 的名称，默认 "xrun"
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 覆盖 Run 监听的信号，空列表等同默认值
func WithSignals(signals []os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *groupOptions) {
		o.signals = copied
	}
}

// WithoutSignalHandler 禁用 Run 的信号监听
func WithoutSignalHandler() Option {
	return func(o *groupOptions) {
		o.noSignals = true
	}
}
