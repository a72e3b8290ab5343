package xredis

import "errors"

var (
	// ErrNilClient 客户端为 nil
	ErrNilClient = errors.New("xredis: client is nil")

	// ErrEmptyStream stream 名为空
	ErrEmptyStream = errors.New("xredis: stream name is empty")
)
