package xexport

import "context"

// Exporter 把一条记录投递到外部系统。实现需要并发安全。
type Exporter interface {
	Export(ctx context.Context, rec Record) error
}

// ExporterFunc 函数适配器
type ExporterFunc func(ctx context.Context, rec Record) error

// Export 实现 Exporter
func (f ExporterFunc) Export(ctx context.Context, rec Record) error { return f(ctx, rec) }
