// Package xclickhouse 把测量记录写入 ClickHouse 表。
//
// 每条记录一次参数化 INSERT。内存字段展开为独立列，未追踪内存时
// memory_tracked 为 false、其余内存列为 0，便于直接聚合：
//
//	SELECT name, quantile(0.99)(elapsed_ms) FROM xmeasure_results GROUP BY name
//
// CreateTableDDL 生成 MergeTree 建表语句，EnsureTable 直接执行。
// 连接（driver.Conn）的生命周期由调用方管理。
package xclickhouse
