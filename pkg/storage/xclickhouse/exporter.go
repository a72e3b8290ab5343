package xclickhouse

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
)

// execer 导出器依赖的最小接口，driver.Conn 满足
type execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

var _ execer = (driver.Conn)(nil)

// Option 导出器选项
type Option func(*Exporter)

// WithTable 目标表，支持 db.table 形式
func WithTable(table string) Option {
	return func(e *Exporter) { e.table = table }
}

// WithTTLDays EnsureTable 建表时的保留天数，<= 0 表示不过期
func WithTTLDays(days int) Option {
	return func(e *Exporter) { e.ttlDays = days }
}

// Exporter ClickHouse 导出器，并发安全
type Exporter struct {
	conn    execer
	table   string
	ttlDays int
	query   string

	inserted atomic.Int64
	failed   atomic.Int64
}

var _ xexport.Exporter = (*Exporter)(nil)

// New 创建导出器
func New(conn driver.Conn, opts ...Option) (*Exporter, error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	return newExporter(conn, opts...)
}

func newExporter(conn execer, opts ...Option) (*Exporter, error) {
	e := &Exporter{conn: conn, table: DefaultTable}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if err := validateTableName(e.table); err != nil {
		return nil, fmt.Errorf("%w: %q", err, e.table)
	}
	e.query = insertQuery(e.table)
	return e, nil
}

// Table 目标表名
func (e *Exporter) Table() string { return e.table }

// EnsureTable 执行 CreateTableDDL
func (e *Exporter) EnsureTable(ctx context.Context) error {
	ddl, err := CreateTableDDL(e.table, e.ttlDays)
	if err != nil {
		return err
	}
	if err := e.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("xclickhouse: create table %s: %w", e.table, err)
	}
	return nil
}

// Export 实现 xexport.Exporter
func (e *Exporter) Export(ctx context.Context, rec xexport.Record) error {
	if err := e.conn.Exec(ctx, e.query, rowArgs(rec)...); err != nil {
		e.failed.Add(1)
		return fmt.Errorf("xclickhouse: insert into %s: %w", e.table, err)
	}
	e.inserted.Add(1)
	return nil
}

// Counts 成功与失败的写入次数
func (e *Exporter) Counts() (inserted, failed int64) {
	return e.inserted.Load(), e.failed.Load()
}

func rowArgs(rec xexport.Record) []any {
	var m xexport.Memory
	if rec.Memory != nil {
		m = *rec.Memory
	}
	return []any{
		rec.ID,
		rec.Name,
		rec.ElapsedMs,
		rec.ThresholdMs,
		rec.ThresholdExceeded,
		rec.Level,
		rec.Timestamp,
		rec.TimestampText,
		rec.Prefix,
		rec.TraceID,
		rec.Memory != nil,
		m.DeltaBytes,
		m.AllocatedBytes,
		m.Gen0,
		m.Gen1,
		m.Gen2,
		m.HighMemory,
		m.HighGCPressure,
	}
}
