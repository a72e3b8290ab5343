package xrotate

import "io"

var _ io.WriteCloser = (Rotator)(nil)

// Rotator 文件轮转写入器
//
// 所有实现都必须并发安全。Close 后调用 Write 或 Rotate 返回 [ErrClosed]。
type Rotator interface {
	// Write 写入数据，达到轮转条件时自动轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器。重复调用返回 [ErrClosed]
	Close() error

	// Rotate 手动触发轮转：当前文件重命名为备份，并创建新文件
	Rotate() error
}
