package xclickhouse

import "errors"

var (
	// ErrNilConn 连接为 nil
	ErrNilConn = errors.New("xclickhouse: nil connection")

	// ErrEmptyTable 表名为空
	ErrEmptyTable = errors.New("xclickhouse: table name is empty")

	// ErrInvalidTableName 表名包含非法字符
	ErrInvalidTableName = errors.New("xclickhouse: invalid table name, contains illegal characters")
)
