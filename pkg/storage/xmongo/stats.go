package xmongo

// Stats 导出器统计
type Stats struct {
	// Inserted 成功写入次数
	Inserted int64

	// InsertErrors 写入失败次数
	InsertErrors int64

	// SlowInserts 慢写入次数
	SlowInserts int64
}
