// Package xrotate 提供按大小轮转的文件写入器。
//
// 测量记录的落盘（xfilesink 的 JSONL 输出）和 xlog 的文件输出都通过
// Rotator 写入，避免长时间运行的进程写出无界大小的文件。
//
// 基本用法：
//
//	r, err := xrotate.NewLumberjack("/var/log/app/measure.jsonl",
//		xrotate.WithMaxSize(100),
//		xrotate.WithMaxBackups(5),
//	)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
package xrotate
