package xclickhouse

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
)

// fakeConn 记录 Exec 调用
type fakeConn struct {
	mu      sync.Mutex
	queries []string
	args    [][]any
	err     error
}

func (f *fakeConn) Exec(_ context.Context, query string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	return f.err
}

// =============================================================================
// 表名与 DDL
// =============================================================================

func TestValidateTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		table string
		want  error
	}{
		{"xmeasure_results", nil},
		{"metrics.results", nil},
		{"`my db`.`my table`", nil},
		{"", ErrEmptyTable},
		{"results; DROP TABLE x", ErrInvalidTableName},
		{"db.`mixed`", ErrInvalidTableName},
		{"`line\nbreak`", ErrInvalidTableName},
	}
	for _, tt := range tests {
		err := validateTableName(tt.table)
		if tt.want == nil {
			assert.NoError(t, err, tt.table)
		} else {
			assert.ErrorIs(t, err, tt.want, tt.table)
		}
	}
}

func TestCreateTableDDL(t *testing.T) {
	t.Parallel()

	ddl, err := CreateTableDDL("db.results", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS db.results ("))
	assert.Contains(t, ddl, "ENGINE = MergeTree")
	assert.Contains(t, ddl, "ORDER BY (name, timestamp)")
	assert.NotContains(t, ddl, "TTL")
	for _, c := range columns {
		assert.Contains(t, ddl, "    "+c+" ", "column %s", c)
	}

	ddl, err = CreateTableDDL("results", 30)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ddl, "TTL toDateTime(timestamp) + INTERVAL 30 DAY"))

	_, err = CreateTableDDL("bad name", 0)
	assert.ErrorIs(t, err, ErrInvalidTableName)
}

func TestInsertQuery(t *testing.T) {
	t.Parallel()

	q := insertQuery("t")
	assert.True(t, strings.HasPrefix(q, "INSERT INTO t (id, name, elapsed_ms, "))
	assert.Equal(t, len(columns), strings.Count(q, "?"))
}

// =============================================================================
// 导出器
// =============================================================================

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilConn)

	_, err = newExporter(&fakeConn{}, WithTable("x;y"))
	assert.ErrorIs(t, err, ErrInvalidTableName)

	exp, err := newExporter(&fakeConn{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTable, exp.Table())
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	exp, err := newExporter(conn, WithTable("m.results"))
	require.NoError(t, err)

	ts := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)
	rec := xexport.Record{
		ID: "id1", Name: "load", ElapsedMs: 1200, ThresholdMs: 1000, ThresholdExceeded: true,
		Level: "threshold_exceeded", Timestamp: ts, Prefix: "METRIKA", TraceID: "t1",
		Memory: &xexport.Memory{DeltaBytes: -4096, AllocatedBytes: 8192, Gen0: 2, Gen2: 1, HighGCPressure: true},
	}
	require.NoError(t, exp.Export(context.Background(), rec))

	require.Len(t, conn.queries, 1)
	assert.Contains(t, conn.queries[0], "INSERT INTO m.results")
	args := conn.args[0]
	require.Len(t, args, len(columns))
	assert.Equal(t, []any{
		"id1", "load", int64(1200), int64(1000), true, "threshold_exceeded", ts, "", "METRIKA", "t1",
		true, int64(-4096), int64(8192), int64(2), int64(0), int64(1), false, true,
	}, args)

	inserted, failed := exp.Counts()
	assert.Equal(t, int64(1), inserted)
	assert.Zero(t, failed)
}

func TestExporter_ExportWithoutMemory(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	exp, err := newExporter(conn)
	require.NoError(t, err)

	require.NoError(t, exp.Export(context.Background(), xexport.Record{ID: "id2", Name: "n"}))
	args := conn.args[0]
	assert.Equal(t, false, args[10], "memory_tracked")
	assert.Equal(t, int64(0), args[11])
}

func TestExporter_ExecError(t *testing.T) {
	t.Parallel()

	boom := errors.New("code: 60, table does not exist")
	exp, err := newExporter(&fakeConn{err: boom})
	require.NoError(t, err)

	err = exp.Export(context.Background(), xexport.Record{ID: "x"})
	require.ErrorIs(t, err, boom)
	_, failed := exp.Counts()
	assert.Equal(t, int64(1), failed)

	err = exp.EnsureTable(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "create table")
}

func TestExporter_EnsureTable(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	exp, err := newExporter(conn, WithTTLDays(14))
	require.NoError(t, err)

	require.NoError(t, exp.EnsureTable(context.Background()))
	require.Len(t, conn.queries, 1)
	assert.Contains(t, conn.queries[0], "CREATE TABLE IF NOT EXISTS "+DefaultTable)
	assert.Contains(t, conn.queries[0], "INTERVAL 14 DAY")
	assert.Empty(t, conn.args[0])
}
