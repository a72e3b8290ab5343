package xlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，与 slog.Level 兼容
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// levelNames 配置中可用的级别名，warning 为 warn 的别名
var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// String 标准级别为大写名称，其余形如 "INFO+2"
func (l Level) String() string {
	return slog.Level(l).String()
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 使 Level 可直接作为配置字段
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 大小写不敏感，忽略首尾空白。未知名称返回 LevelInfo 与错误。
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
}

// LogAt 按 level 选择 Logger 的方法输出，非标准级别向下取整到最近的标准级别
func LogAt(ctx context.Context, l Logger, level Level, msg string, attrs ...slog.Attr) {
	switch {
	case level >= LevelError:
		l.Error(ctx, msg, attrs...)
	case level >= LevelWarn:
		l.Warn(ctx, msg, attrs...)
	case level >= LevelInfo:
		l.Info(ctx, msg, attrs...)
	default:
		l.Debug(ctx, msg, attrs...)
	}
}
