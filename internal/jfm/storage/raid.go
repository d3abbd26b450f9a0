package storage

import (
	"github.com/jimyag/jfm/internal/jfm/entity"
)

// RaidMode RAID 级别的约束与容量计算
type RaidMode struct {
	Level        entity.DiskType `json:"level"`
	Label        string          `json:"label"`
	MinDevices   int             `json:"min_devices"`
	AllowsSpares bool            `json:"allows_spares"`
	// calculateSize 根据最小成员容量与活动成员数计算阵列容量
	calculateSize func(minSize int64, numActive int) int64
}

// CalculateSize 计算阵列容量
func (m RaidMode) CalculateSize(minSize int64, numActive int) int64 {
	if numActive < m.MinDevices {
		return 0
	}
	return m.calculateSize(minSize, numActive)
}

// RaidModes 支持的 RAID 级别
var RaidModes = []RaidMode{
	{
		Level: entity.DiskTypeRAID0, Label: "RAID 0", MinDevices: 2, AllowsSpares: false,
		calculateSize: func(minSize int64, numActive int) int64 { return minSize * int64(numActive) },
	},
	{
		Level: entity.DiskTypeRAID1, Label: "RAID 1", MinDevices: 2, AllowsSpares: true,
		calculateSize: func(minSize int64, _ int) int64 { return minSize },
	},
	{
		Level: entity.DiskTypeRAID5, Label: "RAID 5", MinDevices: 3, AllowsSpares: true,
		calculateSize: func(minSize int64, numActive int) int64 { return minSize * int64(numActive-1) },
	},
	{
		Level: entity.DiskTypeRAID6, Label: "RAID 6", MinDevices: 4, AllowsSpares: true,
		calculateSize: func(minSize int64, numActive int) int64 { return minSize * int64(numActive-2) },
	},
	{
		Level: entity.DiskTypeRAID10, Label: "RAID 10", MinDevices: 3, AllowsSpares: true,
		calculateSize: func(minSize int64, numActive int) int64 { return minSize * int64(numActive) / 2 },
	},
}

// GetRaidMode 按级别查找 RAID 模式
func GetRaidMode(level entity.DiskType) (RaidMode, bool) {
	for _, mode := range RaidModes {
		if mode.Level == level {
			return mode, true
		}
	}
	return RaidMode{}, false
}

// AvailableRaidModes 选中设备数量能满足的 RAID 级别
func AvailableRaidModes(numDevices int) []RaidMode {
	modes := make([]RaidMode, 0, len(RaidModes))
	for _, mode := range RaidModes {
		if numDevices >= mode.MinDevices {
			modes = append(modes, mode)
		}
	}
	return modes
}

// RaidMemberSize 成员设备参与阵列的容量：磁盘取剩余空间，分区取分区大小
func RaidMemberSize(dev entity.StorageDevice) int64 {
	if disk, ok := dev.(*entity.Disk); ok {
		return disk.AvailableSize
	}
	return dev.DeviceSize()
}

// RaidSize 计算以 devs 为活动成员时的阵列容量
func RaidSize(mode RaidMode, devs []entity.StorageDevice) int64 {
	if len(devs) == 0 {
		return 0
	}
	minSize := RaidMemberSize(devs[0])
	for _, dev := range devs[1:] {
		minSize = min(minSize, RaidMemberSize(dev))
	}
	return mode.CalculateSize(minSize, len(devs))
}
