package storage

import (
	"slices"
	"strings"

	"github.com/jimyag/jfm/internal/jfm/entity"
)

// IsFormatted 文件系统是否已格式化
func IsFormatted(fs *entity.Filesystem) bool {
	return fs != nil && fs.FSType != ""
}

// IsMounted 文件系统是否已挂载
// VMware 数据存储使用占位挂载点 RESERVED，不算挂载
func IsMounted(fs *entity.Filesystem) bool {
	if fs == nil {
		return false
	}
	return fs.MountPoint != "" && fs.MountPoint != entity.MountPointReserved
}

// IsDatastore 文件系统是否为 VMFS 数据存储
func IsDatastore(fs *entity.Filesystem) bool {
	return fs != nil && (fs.FSType == entity.FSTypeVMFS6 || fs.FSType == entity.FSTypeVMFS7)
}

// IsDisk 设备是否为磁盘
func IsDisk(dev entity.StorageDevice) bool {
	d, ok := dev.(*entity.Disk)
	return ok && d != nil
}

// IsPartition 设备是否为分区
func IsPartition(dev entity.StorageDevice) bool {
	p, ok := dev.(*entity.Partition)
	return ok && p != nil
}

// IsVirtual 是否为带父设备的虚拟磁盘
func IsVirtual(disk *entity.Disk) bool {
	return disk != nil && disk.Type == entity.DiskTypeVirtual && disk.Parent != nil
}

// IsBcache 是否为 bcache 设备
func IsBcache(disk *entity.Disk) bool {
	return IsVirtual(disk) && disk.Parent.Type == entity.DiskTypeBcache
}

// IsLogicalVolume 是否为逻辑卷
func IsLogicalVolume(disk *entity.Disk) bool {
	return IsVirtual(disk) && disk.Parent.Type == entity.DiskTypeVolumeGroup
}

// IsRaid 是否为 RAID 设备
func IsRaid(disk *entity.Disk) bool {
	return IsVirtual(disk) && strings.HasPrefix(string(disk.Parent.Type), "raid-")
}

// IsCacheSet 是否为缓存集
func IsCacheSet(disk *entity.Disk) bool {
	return disk != nil && disk.Type == entity.DiskTypeCacheSet
}

// IsVolumeGroup 是否为卷组
func IsVolumeGroup(disk *entity.Disk) bool {
	return disk != nil && disk.Type == entity.DiskTypeVolumeGroup
}

// IsPhysical 是否为物理磁盘
func IsPhysical(disk *entity.Disk) bool {
	return disk != nil && disk.Type == entity.DiskTypePhysical
}

// IsVMWareLayout 是否为 VMware 存储布局
func IsVMWareLayout(layout entity.StorageLayout) bool {
	return layout == entity.StorageLayoutVMFS6 || layout == entity.StorageLayoutVMFS7
}

// hasPartitions 磁盘上是否已有分区
func hasPartitions(disk *entity.Disk) bool {
	return disk != nil && len(disk.Partitions) > 0
}

// CanBeDeleted 磁盘是否可以删除
// 卷组要求没有已用空间，其他磁盘要求没有分区，已挂载的磁盘不可删除
func CanBeDeleted(disk *entity.Disk) bool {
	if disk == nil || IsMounted(disk.Filesystem) {
		return false
	}
	if IsVolumeGroup(disk) {
		return disk.UsedSize == 0
	}
	return !hasPartitions(disk)
}

// CanBeFormatted 文件系统是否可被格式化
func CanBeFormatted(fs *entity.Filesystem) bool {
	return fs != nil && fs.IsFormatFSType
}

// CanBePartitioned 磁盘是否可以创建分区
func CanBePartitioned(disk *entity.Disk) bool {
	if disk == nil ||
		disk.Filesystem != nil ||
		IsBcache(disk) ||
		IsLogicalVolume(disk) ||
		IsVolumeGroup(disk) {
		return false
	}
	return disk.AvailableSize >= entity.MinPartitionSize
}

// CanCreateBcache 设备是否可作为 bcache 的后端设备
// 节点上必须已经存在缓存集
func CanCreateBcache(disks []*entity.Disk, dev entity.StorageDevice) bool {
	if isNil(dev) || !slices.ContainsFunc(disks, IsCacheSet) {
		return false
	}
	if disk, ok := dev.(*entity.Disk); ok {
		if hasPartitions(disk) || IsVolumeGroup(disk) || IsBcache(disk) {
			return false
		}
	}
	return !IsFormatted(dev.DeviceFilesystem())
}

// CanCreateCacheSet 设备是否可以创建缓存集
func CanCreateCacheSet(dev entity.StorageDevice) bool {
	if isNil(dev) {
		return false
	}
	if disk, ok := dev.(*entity.Disk); ok {
		if hasPartitions(disk) || IsVolumeGroup(disk) || IsCacheSet(disk) {
			return false
		}
	}
	return !IsFormatted(dev.DeviceFilesystem())
}

// CanCreateLogicalVolume 卷组上是否还能创建逻辑卷
func CanCreateLogicalVolume(disk *entity.Disk) bool {
	return IsVolumeGroup(disk) && DiskAvailable(disk)
}

// CanCreateOrUpdateDatastore 设备集合是否可以创建或扩展数据存储
func CanCreateOrUpdateDatastore(devs []entity.StorageDevice) bool {
	if len(devs) == 0 || slices.ContainsFunc(devs, formatted) {
		return false
	}
	for _, dev := range devs {
		disk, ok := dev.(*entity.Disk)
		if !ok {
			continue
		}
		if hasPartitions(disk) || IsBcache(disk) || IsLogicalVolume(disk) || IsVolumeGroup(disk) {
			return false
		}
	}
	return true
}

// CanCreateRaid 设备集合是否可以组建 RAID，至少需要两个设备
func CanCreateRaid(devs []entity.StorageDevice) bool {
	if len(devs) <= 1 {
		return false
	}
	for _, dev := range devs {
		if disk, ok := dev.(*entity.Disk); ok && (hasPartitions(disk) || IsVolumeGroup(disk)) {
			return false
		}
		if formatted(dev) {
			return false
		}
	}
	return true
}

// CanCreateVolumeGroup 设备集合是否可以创建卷组
// 每个设备都必须未分区且未格式化
func CanCreateVolumeGroup(devs []entity.StorageDevice) bool {
	if len(devs) == 0 || slices.ContainsFunc(devs, formatted) {
		return false
	}
	for _, dev := range devs {
		if disk, ok := dev.(*entity.Disk); ok && (hasPartitions(disk) || IsVolumeGroup(disk)) {
			return false
		}
	}
	return true
}

// CanOsSupportBcacheZFS 节点操作系统是否支持 bcache 与 ZFS
func CanOsSupportBcacheZFS(node *entity.Node) bool {
	return node != nil && node.OSystem == "ubuntu"
}

// CanOsSupportStorageConfig 节点操作系统是否支持自定义存储配置
func CanOsSupportStorageConfig(node *entity.Node) bool {
	if node == nil {
		return false
	}
	return slices.Contains([]string{"centos", "rhel", "ubuntu"}, node.OSystem)
}

// CanSetBootDisk 磁盘是否可以设置为启动盘
func CanSetBootDisk(layout entity.StorageLayout, disk *entity.Disk) bool {
	return layout != entity.StorageLayoutVMFS6 && IsPhysical(disk) && !disk.IsBoot
}

// DiskAvailable 磁盘是否仍可用于新的存储配置
func DiskAvailable(disk *entity.Disk) bool {
	if disk == nil || IsCacheSet(disk) || IsMounted(disk.Filesystem) {
		return false
	}
	if IsRaid(disk) {
		return true
	}
	return disk.AvailableSize >= entity.MinPartitionSize
}

// PartitionAvailable 分区是否仍可用于新的存储配置
func PartitionAvailable(partition *entity.Partition) bool {
	if partition == nil || IsMounted(partition.Filesystem) {
		return false
	}
	return partition.Filesystem == nil || CanBeFormatted(partition.Filesystem)
}

// IsAvailable 设备是否出现在可用存储表中，数据存储不在其中
func IsAvailable(dev entity.StorageDevice) bool {
	if isNil(dev) || IsDatastore(dev.DeviceFilesystem()) {
		return false
	}
	switch d := dev.(type) {
	case *entity.Disk:
		return DiskAvailable(d)
	case *entity.Partition:
		return PartitionAvailable(d)
	default:
		return false
	}
}

// IsNodeStorageConfigurable 节点存储是否处于可配置状态（Ready 的机器）
func IsNodeStorageConfigurable(node *entity.Node) bool {
	return node.IsMachine() && node.StatusCode == entity.NodeStatusReady
}

// CanEditStorage 当前用户能否修改节点存储
func CanEditStorage(node *entity.Node) bool {
	return IsNodeStorageConfigurable(node) &&
		node.HasPermission(entity.PermissionEdit) &&
		!node.Locked
}

// UsesStorage 文件系统类型是否占用块设备
func UsesStorage(fstype string) bool {
	if fstype == "" {
		return false
	}
	return fstype != entity.FSTypeRamfs && fstype != entity.FSTypeTmpfs
}

func formatted(dev entity.StorageDevice) bool {
	return !isNil(dev) && IsFormatted(dev.DeviceFilesystem())
}

// isNil 同时识别 nil 接口与装箱的 nil 指针
func isNil(dev entity.StorageDevice) bool {
	switch d := dev.(type) {
	case nil:
		return true
	case *entity.Disk:
		return d == nil
	case *entity.Partition:
		return d == nil
	default:
		return false
	}
}
