// Package xpulsar 把测量记录发送到 Pulsar topic。
//
// 消息 key 为测量名称，payload 为记录 JSON，EventTime 为测量时间戳，
// properties 携带测量级别与存在时的 trace id。Export 同步等待 broker 确认。
//
// New 在给定 client 上创建 producer，Close 只关闭该 producer，client 由调用方关闭。
package xpulsar
