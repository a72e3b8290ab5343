package xkafka

import "errors"

var (
	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("xkafka: nil config")

	// ErrEmptyTopic topic 为空
	ErrEmptyTopic = errors.New("xkafka: topic is empty")

	// ErrClosed 导出器已关闭
	ErrClosed = errors.New("xkafka: exporter closed")

	// ErrFlushTimeout Close 时队列未在超时内清空
	ErrFlushTimeout = errors.New("xkafka: flush timeout")

	// ErrUnexpectedEvent 投递通道收到非消息事件
	ErrUnexpectedEvent = errors.New("xkafka: unexpected delivery event")
)
