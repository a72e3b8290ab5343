// Package xfilesink 把测量记录以 JSON Lines 写入文件。
//
// 文件写入经 xrotate 轮转（lumberjack），每条记录一行，便于 jq 或日志采集器消费：
//
//	exp, err := xfilesink.New("/var/log/app/measure.jsonl", xrotate.WithMaxSize(50))
//	sink, err := xexport.NewSink(exp, xexport.WithAsync(1, 1024))
//	xmeasure.Register(sink)
//
// 也可以用 NewWriter 写入任意 io.Writer（如 os.Stdout）。
package xfilesink
