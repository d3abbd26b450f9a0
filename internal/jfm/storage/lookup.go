package storage

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jimyag/jfm/internal/jfm/entity"
)

// GetDiskByID 按 ID 查找磁盘
func GetDiskByID(disks []*entity.Disk, id int64) *entity.Disk {
	for _, disk := range disks {
		if disk != nil && disk.ID == id {
			return disk
		}
	}
	return nil
}

// GetPartitionByID 按 ID 查找分区
func GetPartitionByID(disks []*entity.Disk, id int64) *entity.Partition {
	for _, disk := range disks {
		if disk == nil {
			continue
		}
		for _, partition := range disk.Partitions {
			if partition != nil && partition.ID == id {
				return partition
			}
		}
	}
	return nil
}

// GetParentDisk 查找分区所在的磁盘
func GetParentDisk(disks []*entity.Disk, partitionID int64) *entity.Disk {
	for _, disk := range disks {
		if disk == nil {
			continue
		}
		for _, partition := range disk.Partitions {
			if partition != nil && partition.ID == partitionID {
				return disk
			}
		}
	}
	return nil
}

// GetDevice 按引用查找磁盘或分区，不存在时返回 nil
func GetDevice(disks []*entity.Disk, ref entity.DeviceRef) entity.StorageDevice {
	if ref.Type == entity.DiskTypePartition {
		if partition := GetPartitionByID(disks, ref.ID); partition != nil {
			return partition
		}
		return nil
	}
	if disk := GetDiskByID(disks, ref.ID); disk != nil && disk.Type == ref.Type {
		return disk
	}
	return nil
}

// SplitDiskPartitionIDs 把设备集合拆分为磁盘 ID 与分区 ID
func SplitDiskPartitionIDs(devs []entity.StorageDevice) (diskIDs, partitionIDs []int64) {
	diskIDs = []int64{}
	partitionIDs = []int64{}
	for _, dev := range devs {
		if isNil(dev) {
			continue
		}
		if IsDisk(dev) {
			diskIDs = append(diskIDs, dev.DeviceID())
		} else {
			partitionIDs = append(partitionIDs, dev.DeviceID())
		}
	}
	return diskIDs, partitionIDs
}

// NamePrefix 新建存储设备的名称前缀
type NamePrefix string

const (
	NamePrefixBcache    NamePrefix = "bcache"
	NamePrefixDatastore NamePrefix = "datastore"
	NamePrefixRaid      NamePrefix = "md"
	NamePrefixVolume    NamePrefix = "vg"
)

// IsValid 检查前缀是否受支持
func (p NamePrefix) IsValid() error {
	switch p {
	case NamePrefixBcache, NamePrefixDatastore, NamePrefixRaid, NamePrefixVolume:
		return nil
	default:
		return fmt.Errorf("unsupported storage name prefix %q", p)
	}
}

// NextStorageName 为新的卷组、RAID、bcache 或数据存储生成默认名称
// 只统计同类设备中形如 <prefix><n> 的名称，返回最大序号 + 1；
// 没有同类设备时从起始序号开始（数据存储从 1 开始，其余从 0 开始）
func NextStorageName(disks []*entity.Disk, prefix NamePrefix) string {
	start := 0
	if prefix == NamePrefixDatastore {
		start = 1
	}
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(string(prefix)) + `(\d+)$`)

	next := start
	for _, disk := range disks {
		if !matchesPrefix(disk, prefix) {
			continue
		}
		m := pattern.FindStringSubmatch(disk.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%d", prefix, next)
}

func matchesPrefix(disk *entity.Disk, prefix NamePrefix) bool {
	if disk == nil {
		return false
	}
	switch prefix {
	case NamePrefixVolume:
		return IsVolumeGroup(disk)
	case NamePrefixRaid:
		return IsRaid(disk)
	case NamePrefixBcache:
		return IsBcache(disk)
	case NamePrefixDatastore:
		return IsDatastore(disk.Filesystem)
	default:
		return false
	}
}
