package storage

import (
	"fmt"

	"github.com/jimyag/jfm/internal/jfm/entity"
)

// Row 可用存储表中的一行：磁盘，或带父磁盘引用的分区
type Row struct {
	Device     entity.StorageDevice
	ParentDisk *entity.Disk // 仅分区行有值
}

// Ref 返回该行设备的引用
func (r Row) Ref() entity.DeviceRef {
	return RefOf(r.Device)
}

// RefOf 构造设备引用
func RefOf(dev entity.StorageDevice) entity.DeviceRef {
	return entity.DeviceRef{ID: dev.DeviceID(), Type: dev.DeviceType()}
}

// UniqueID 生成设备在表内的唯一标识
// 磁盘与分区的 ID 可能相同，因此需要带上类型
func UniqueID(dev entity.StorageDevice) string {
	return fmt.Sprintf("%s-%d", dev.DeviceType(), dev.DeviceID())
}

// AvailableRows 把节点的磁盘树展开为可用存储行
// 按磁盘原始顺序输出，每个磁盘之后紧跟其可用分区；
// 磁盘本身不可用时，其可用分区仍然保留
func AvailableRows(disks []*entity.Disk) []Row {
	rows := make([]Row, 0, len(disks))
	for _, disk := range disks {
		if disk == nil {
			continue
		}
		if IsAvailable(disk) {
			rows = append(rows, Row{Device: disk})
		}
		for _, partition := range disk.Partitions {
			if partition != nil && IsAvailable(partition) {
				rows = append(rows, Row{Device: partition, ParentDisk: disk})
			}
		}
	}
	return rows
}

// IsSelected 设备是否在选中列表中，同时比较 ID 与类型
func IsSelected(dev entity.StorageDevice, selected []entity.DeviceRef) bool {
	ref := RefOf(dev)
	for _, item := range selected {
		if item == ref {
			return true
		}
	}
	return false
}

// SelectAll 返回全部可用设备的引用
func SelectAll(disks []*entity.Disk) []entity.DeviceRef {
	rows := AvailableRows(disks)
	refs := make([]entity.DeviceRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, row.Ref())
	}
	return refs
}

// ToggleAll 全选框行为：已有选中项时清空，否则全选
func ToggleAll(disks []*entity.Disk, selected []entity.DeviceRef) []entity.DeviceRef {
	if len(selected) > 0 {
		return []entity.DeviceRef{}
	}
	return SelectAll(disks)
}

// ReconcileSelection 节点记录更新后重新校正选中项
// 已被删除或不再可用的设备会被移除，其余保持原有顺序
func ReconcileSelection(disks []*entity.Disk, selected []entity.DeviceRef) []entity.DeviceRef {
	refs := make([]entity.DeviceRef, 0, len(selected))
	for _, dev := range ResolveSelection(disks, selected) {
		refs = append(refs, RefOf(dev))
	}
	return refs
}

// ResolveSelection 把选中引用解析为当前记录中的可用设备
func ResolveSelection(disks []*entity.Disk, selected []entity.DeviceRef) []entity.StorageDevice {
	devs := make([]entity.StorageDevice, 0, len(selected))
	seen := make(map[entity.DeviceRef]struct{}, len(selected))
	for _, ref := range selected {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		dev := lookup(disks, ref)
		if dev == nil || !IsAvailable(dev) {
			continue
		}
		devs = append(devs, dev)
	}
	return devs
}

// lookup 分区按 ID 查找，磁盘按 ID 查找且忽略类型变化（例如被格式化为缓存集）
func lookup(disks []*entity.Disk, ref entity.DeviceRef) entity.StorageDevice {
	if ref.Type == entity.DiskTypePartition {
		if partition := GetPartitionByID(disks, ref.ID); partition != nil {
			return partition
		}
		return nil
	}
	if disk := GetDiskByID(disks, ref.ID); disk != nil {
		return disk
	}
	return nil
}
