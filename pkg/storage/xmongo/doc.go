// Package xmongo 把测量记录写入 MongoDB 集合。
//
// 每条记录一次 InsertOne，文档结构即 xexport.Record 的 BSON 形式，
// Record.ID 作为 _id，重复投递（例如重试）会得到重复键错误而不是重复文档。
//
// EnsureIndexes 创建 (name, timestamp) 复合索引；设置 WithTTL 时额外在
// timestamp 上创建 TTL 索引，由 MongoDB 自动清理过期记录。
//
// 耗时超过 WithSlowThreshold 的写入会调用 SlowInsertHook 并计入 Stats。
// mongo.Client 与集合的生命周期由调用方管理。
package xmongo
