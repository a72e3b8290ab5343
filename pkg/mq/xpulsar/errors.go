package xpulsar

import "errors"

var (
	// ErrNilClient client 为 nil
	ErrNilClient = errors.New("xpulsar: nil client")

	// ErrEmptyTopic topic 为空
	ErrEmptyTopic = errors.New("xpulsar: topic is empty")

	// ErrClosed 导出器已关闭
	ErrClosed = errors.New("xpulsar: exporter closed")
)
