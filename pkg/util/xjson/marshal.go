package xjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMarshal 序列化失败
var ErrMarshal = errors.New("xjson: marshal failed")

// Line 序列化为单行 JSON，末尾带 '\n'
func Line(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// PrettyE 序列化为两空格缩进的 JSON
func PrettyE(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return string(data), nil
}

// Pretty 用于日志和调试输出。序列化失败时返回 "<marshal error: ...>"。
func Pretty(v any) string {
	s, err := PrettyE(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %v>", err)
	}
	return s
}
