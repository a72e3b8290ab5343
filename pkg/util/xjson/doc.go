// Package xjson JSON 序列化工具函数。
//
//   - [Line]: 紧凑单行 JSON 并以换行结尾，用于 JSON Lines 文件与消息体，
//     不转义 HTML 字符
//   - [PrettyE]: 缩进格式，失败时返回 [ErrMarshal] 包装的错误
//   - [Pretty]: PrettyE 的便捷版本，失败时返回 "<marshal error: ...>" 标记字符串
package xjson
