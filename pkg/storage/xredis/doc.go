// Package xredis 把测量记录写入 Redis Stream。
//
// 每条记录一次 XADD，字段包括完整 JSON（record）以及便于 XRANGE 过滤的
// name、level、elapsed_ms。默认使用 MAXLEN ~ 近似裁剪，避免 stream 无限增长。
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	exp, err := xredis.New(rdb, xredis.WithStream("app:measure"), xredis.WithMaxLen(100_000))
//	sink, err := xexport.NewSink(exp, xexport.WithRetry(3, 50*time.Millisecond))
//
// 高频调用点可按测量名限流（GCRA，键为 xmeasure:rate:<name>），
// 超出配额的记录直接丢弃，数量见 Exporter.Throttled：
//
//	exp, err := xredis.New(rdb, xredis.WithRateLimit(redis_rate.NewLimiter(rdb), redis_rate.PerSecond(100)))
package xredis
