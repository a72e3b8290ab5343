// Package xkafka 把测量记录发送到 Kafka topic（confluent-kafka-go）。
//
// 消息 key 为测量名称，同名测量落在同一分区并保持顺序；value 为记录的 JSON。
// 请求头携带 content-type、测量级别，以及存在时的 trace id。
//
// Export 会等待 broker 的投递报告，ctx 取消时提前返回 ctx.Err()，
// 消息仍可能在后台完成投递。Close 先 Flush 再关闭 producer。
package xkafka
