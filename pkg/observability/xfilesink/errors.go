package xfilesink

import "errors"

var (
	// ErrClosed Exporter 已关闭
	ErrClosed = errors.New("xfilesink: exporter is closed")

	// ErrNilWriter writer 为 nil
	ErrNilWriter = errors.New("xfilesink: writer is nil")
)
