// Package storage 提供测量记录持久化相关的子包。
//
// 子包列表：
//   - xredis: 写入 Redis Stream，可按测量名限流
//   - xmongo: 写入 MongoDB 集合
//   - xclickhouse: 批量写入 ClickHouse 表
//
// 各子包实现 xexport.Exporter，客户端生命周期由调用方管理。
package storage
