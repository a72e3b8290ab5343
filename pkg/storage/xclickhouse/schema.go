package xclickhouse

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTable 默认表名
const DefaultTable = "xmeasure_results"

// columns 列顺序与 rowArgs 一一对应
var columns = []string{
	"id",
	"name",
	"elapsed_ms",
	"threshold_ms",
	"threshold_exceeded",
	"level",
	"timestamp",
	"timestamp_text",
	"prefix",
	"trace_id",
	"memory_tracked",
	"memory_delta_bytes",
	"memory_allocated_bytes",
	"gc_gen0",
	"gc_gen1",
	"gc_gen2",
	"high_memory",
	"high_gc_pressure",
}

const columnDDL = `
    id                     String,
    name                   String,
    elapsed_ms             Int64,
    threshold_ms           Int64,
    threshold_exceeded     Bool,
    level                  LowCardinality(String),
    timestamp              DateTime64(3, 'UTC'),
    timestamp_text         String,
    prefix                 LowCardinality(String),
    trace_id               String,
    memory_tracked         Bool,
    memory_delta_bytes     Int64,
    memory_allocated_bytes Int64,
    gc_gen0                Int64,
    gc_gen1                Int64,
    gc_gen2                Int64,
    high_memory            Bool,
    high_gc_pressure       Bool`

// tableNamePattern 支持 table、db.table、`db`.`table`，反引号内禁止控制字符
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$|^` + "`[^`\\x00-\\x1f]+`" + `(\.` + "`[^`\\x00-\\x1f]+`" + `)?$`)

// validateTableName 校验表名，防止 SQL 注入
func validateTableName(table string) error {
	if table == "" {
		return ErrEmptyTable
	}
	if !tableNamePattern.MatchString(table) {
		return ErrInvalidTableName
	}
	return nil
}

// insertQuery 参数化 INSERT 语句
func insertQuery(table string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
}

// CreateTableDDL 生成建表语句。ttlDays > 0 时追加按 timestamp 过期的 TTL。
func CreateTableDDL(table string, ttlDays int) (string, error) {
	if err := validateTableName(table); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (%s\n)\nENGINE = MergeTree\nPARTITION BY toYYYYMMDD(timestamp)\nORDER BY (name, timestamp)", table, columnDDL)
	if ttlDays > 0 {
		fmt.Fprintf(&b, "\nTTL toDateTime(timestamp) + INTERVAL %d DAY", ttlDays)
	}
	return b.String(), nil
}
