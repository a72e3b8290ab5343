package xexport

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sony/sonyflake/v2"
)

// SonyflakeIDs 返回配合 WithIDFunc 使用的记录 ID 生成器。
//
// ID 为十进制 Sonyflake，随时间递增，便于存储端按 ID 排序。
// 多个进程同时导出时用 machineID 区分。时间分量溢出后退回 UUID。
func SonyflakeIDs(machineID uint16) (func() string, error) {
	sf, err := sonyflake.New(sonyflake.Settings{
		MachineID: func() (int, error) { return int(machineID), nil },
	})
	if err != nil {
		return nil, fmt.Errorf("xexport: sonyflake: %w", err)
	}
	return func() string {
		id, err := sf.NextID()
		if err != nil {
			return uuid.NewString()
		}
		return strconv.FormatInt(id, 10)
	}, nil
}
