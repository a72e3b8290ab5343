// Package xsampling 提供测量记录的采样策略。
//
// 高频调用点（每秒上万次的测量）全部导出会压垮下游存储，
// xexport 在导出前询问 Sampler 决定是否发送。
//
// 内置策略：
//   - Always / Never: 全采样 / 不采样
//   - RateSampler: 固定比率随机采样
//   - CountSampler: 每 N 个采样 1 个
//   - KeyBasedSampler: 按 key 一致性采样（xxhash），默认 key 为测量名称
//
// KeyBasedSampler 对同一测量名称总是给出相同决策，多副本部署时
// 同一调用点要么全部导出、要么全部跳过，便于跨实例对比。
package xsampling
