package xfilesink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
	"github.com/omeyang/xmeasure/pkg/observability/xrotate"
	"github.com/omeyang/xmeasure/pkg/util/xjson"
)

// Exporter JSON Lines 导出器，并发安全
type Exporter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

var _ xexport.Exporter = (*Exporter)(nil)

// New 写入带轮转的文件
func New(filename string, opts ...xrotate.Option) (*Exporter, error) {
	r, err := xrotate.NewLumberjack(filename, opts...)
	if err != nil {
		return nil, fmt.Errorf("xfilesink: open %s: %w", filename, err)
	}
	return &Exporter{w: r}, nil
}

// NewWriter 写入任意 writer。w 实现 io.Closer 时 Close 会一并关闭。
func NewWriter(w io.Writer) (*Exporter, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	return &Exporter{w: w}, nil
}

// Export 实现 xexport.Exporter。每条记录一次 Write 调用。
func (e *Exporter) Export(_ context.Context, rec xexport.Record) error {
	line, err := xjson.Line(rec)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if _, err := e.w.Write(line); err != nil {
		return fmt.Errorf("xfilesink: write: %w", err)
	}
	return nil
}

// Rotate 手动轮转。底层不是 xrotate.Rotator 时为空操作。
func (e *Exporter) Rotate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if r, ok := e.w.(xrotate.Rotator); ok {
		return r.Rotate()
	}
	return nil
}

// Close 关闭底层 writer。重复调用返回 ErrClosed。
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	if c, ok := e.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
