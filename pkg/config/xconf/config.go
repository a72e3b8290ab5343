package xconf

import "github.com/knadh/koanf/v2"

// Format 配置文件格式
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 配置接口。
//
// 只提供增值功能，基础读取请直接使用 Client() 返回的 koanf 实例。
type Config interface {
	// Client 返回底层 koanf 实例
	Client() *koanf.Koanf

	// Unmarshal 将 path 下的配置反序列化到 target，path 为空时反序列化全部。
	Unmarshal(path string, target any) error

	// Reload 重新读取配置文件，并发安全。字节数据创建的配置返回 ErrNotFileBacked。
	Reload() error

	// Path 配置文件路径，字节数据创建的配置返回空字符串
	Path() string

	// Format 配置格式
	Format() Format
}
