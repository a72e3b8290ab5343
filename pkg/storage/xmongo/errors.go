package xmongo

import "errors"

var (
	// ErrNilCollection 传入的 collection 为 nil
	ErrNilCollection = errors.New("xmongo: nil collection")

	// ErrInvalidTTL TTL 超出 int32 秒范围或不足 1 秒
	ErrInvalidTTL = errors.New("xmongo: invalid ttl")
)
