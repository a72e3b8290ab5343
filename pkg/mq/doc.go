// Package mq 提供消息队列相关的子包。
//
// 子包列表：
//   - xkafka: 测量记录导出到 Kafka（confluent-kafka-go）
//   - xpulsar: 测量记录导出到 Pulsar
//
// 两者都实现 xexport.Exporter，经 xexport.NewSink 接入测量管道，
// 重试、熔断和采样由 xexport 统一处理。
package mq
