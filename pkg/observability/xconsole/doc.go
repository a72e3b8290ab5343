// Package xconsole 把测量结果以一行文本写到终端。
//
// 行格式（各段以单个空格连接，方括号内的段按条件出现）：
//
//	[METRIKA] [14:07:09] [INFO] load-users duration: 42 ms (threshold: 100 ms) | Memory: +2.00 MB | GC: Gen0: 3, Gen1: 0, Gen2: 0
//
// 颜色优先级：超阈值使用配色方案的 ThresholdExceeded；其次高内存为红色、
// GC 压力为黄色；否则按 Slow / Normal / Fast 取配色方案中的颜色。
//
// 默认只在输出目标是终端时着色，可用 [WithColors] 强制开关。
package xconsole
